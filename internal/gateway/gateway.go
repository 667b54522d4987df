// Package gateway maps API Gateway proxy requests onto the services.
// Write routes pass their body through the schema validator first; an
// invalid body never reaches a service.
package gateway

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/kylejryan/image-groups/internal/api"
	"github.com/kylejryan/image-groups/internal/httpx"
	"github.com/kylejryan/image-groups/internal/logging"
	"github.com/kylejryan/image-groups/internal/metrics"
	"github.com/kylejryan/image-groups/internal/models"
	"github.com/kylejryan/image-groups/internal/service"
	"github.com/kylejryan/image-groups/internal/validate"
)

// Func is the Lambda handler shape for REST API proxy integrations.
type Func func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Route names, also used as metric labels.
const (
	RouteListGroups  = "GET /groups"
	RouteCreateGroup = "POST /groups"
	RouteListImages  = "GET /groups/{groupId}/images"
	RouteCreateImage = "POST /groups/{groupId}/images"
	RouteGetImage    = "GET /images/{imageId}"
	RouteUploadURL   = "POST /images/{imageId}/upload-url"
)

// Handlers holds one method per route.
type Handlers struct {
	groups *service.Groups
	images *service.Images
	log    *zap.Logger
}

// New creates the route handlers.
func New(groups *service.Groups, images *service.Images, log *zap.Logger) *Handlers {
	return &Handlers{groups: groups, images: images, log: logging.OrNop(log)}
}

// ListGroups handles GET /groups.
func (h *Handlers) ListGroups(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	groups, err := h.groups.List(ctx)
	if err != nil {
		return h.fail(RouteListGroups, err)
	}
	return h.ok(RouteListGroups, http.StatusOK, api.ItemsResponse[models.Group]{Items: groups})
}

// CreateGroup handles POST /groups.
func (h *Handlers) CreateGroup(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var body api.CreateGroupRequest
	if err := validate.Body(req.Body, &body); err != nil {
		return h.fail(RouteCreateGroup, err)
	}
	g, err := h.groups.Create(ctx, body)
	if err != nil {
		return h.fail(RouteCreateGroup, err)
	}
	return h.ok(RouteCreateGroup, http.StatusCreated, api.ItemResponse[models.Group]{Item: g})
}

// ListImages handles GET /groups/{groupId}/images.
func (h *Handlers) ListImages(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	groupID, ok := pathParam(req, "groupId")
	if !ok {
		return h.respond(RouteListImages, http.StatusBadRequest, "missing groupId")
	}
	images, err := h.images.List(ctx, groupID)
	if err != nil {
		return h.fail(RouteListImages, err)
	}
	return h.ok(RouteListImages, http.StatusOK, api.ItemsResponse[models.Image]{Items: images})
}

// CreateImage handles POST /groups/{groupId}/images.
func (h *Handlers) CreateImage(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	groupID, ok := pathParam(req, "groupId")
	if !ok {
		return h.respond(RouteCreateImage, http.StatusBadRequest, "missing groupId")
	}
	var body api.CreateImageRequest
	if err := validate.Body(req.Body, &body); err != nil {
		return h.fail(RouteCreateImage, err)
	}
	up, err := h.images.Create(ctx, groupID, body)
	if err != nil && up.Image.ImageID != "" {
		// Stored but unsigned: hand back the record so the client can renew.
		h.log.Error("upload url unavailable",
			zap.String("route", RouteCreateImage),
			zap.String("image_id", up.Image.ImageID),
			zap.Error(err))
		return h.ok(RouteCreateImage, http.StatusBadGateway, api.UploadResponse{
			Item:  up.Image,
			Error: "upload url unavailable",
		})
	}
	if err != nil {
		return h.fail(RouteCreateImage, err)
	}
	return h.ok(RouteCreateImage, http.StatusCreated, uploadResponse(up))
}

// GetImage handles GET /images/{imageId}.
func (h *Handlers) GetImage(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	imageID, ok := pathParam(req, "imageId")
	if !ok {
		return h.respond(RouteGetImage, http.StatusBadRequest, "missing imageId")
	}
	img, err := h.images.Get(ctx, imageID)
	if err != nil {
		return h.fail(RouteGetImage, err)
	}
	return h.ok(RouteGetImage, http.StatusOK, api.ItemResponse[models.Image]{Item: img})
}

// RenewUploadURL handles POST /images/{imageId}/upload-url.
func (h *Handlers) RenewUploadURL(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	imageID, ok := pathParam(req, "imageId")
	if !ok {
		return h.respond(RouteUploadURL, http.StatusBadRequest, "missing imageId")
	}
	up, err := h.images.RenewUploadURL(ctx, imageID)
	if err != nil {
		return h.fail(RouteUploadURL, err)
	}
	return h.ok(RouteUploadURL, http.StatusOK, uploadResponse(up))
}

func uploadResponse(up service.Upload) api.UploadResponse {
	return api.UploadResponse{
		Item:      up.Image,
		UploadURL: up.Credential.URL,
		ExpiresIn: int(up.Credential.TTL.Seconds()),
		ExpiresAt: models.FormatTimestamp(up.Credential.ExpiresAt),
	}
}

func pathParam(req events.APIGatewayProxyRequest, name string) (string, bool) {
	v := strings.TrimSpace(req.PathParameters[name])
	return v, v != ""
}

func (h *Handlers) ok(route string, status int, v any) (events.APIGatewayProxyResponse, error) {
	metrics.ObserveRequest(route, status)
	return httpx.JSON(status, v)
}

func (h *Handlers) respond(route string, status int, msg string) (events.APIGatewayProxyResponse, error) {
	metrics.ObserveRequest(route, status)
	return httpx.Error(status, msg)
}

func (h *Handlers) fail(route string, err error) (events.APIGatewayProxyResponse, error) {
	resp, rerr := httpx.FromError(err)
	metrics.ObserveRequest(route, resp.StatusCode)
	if resp.StatusCode >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("route", route), zap.Error(err))
	} else {
		h.log.Info("request rejected", zap.String("route", route), zap.Int("status", resp.StatusCode), zap.Error(err))
	}
	return resp, rerr
}
