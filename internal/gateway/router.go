package gateway

import (
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kylejryan/image-groups/internal/httpx"
	"github.com/kylejryan/image-groups/internal/metrics"
)

// maxBody caps request bodies, matching API Gateway's payload limit.
var maxBody int64 = 10 << 20

// Router mounts the handlers on a chi router for local development. Each
// request is converted to the proxy event the Lambda would receive.
func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Get("/groups", Adapt(h.ListGroups))
	r.Post("/groups", Adapt(h.CreateGroup))
	r.Get("/groups/{groupId}/images", Adapt(h.ListImages))
	r.Post("/groups/{groupId}/images", Adapt(h.CreateImage))
	r.Get("/images/{imageId}", Adapt(h.GetImage))
	r.Post("/images/{imageId}/upload-url", Adapt(h.RenewUploadURL))
	return r
}

// Adapt serves fn over net/http.
func Adapt(fn Func) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			resp, _ := httpx.Error(http.StatusRequestEntityTooLarge, "request body too large")
			writeResponse(w, resp)
			return
		}

		req := events.APIGatewayProxyRequest{
			Path:                  r.URL.Path,
			HTTPMethod:            r.Method,
			Headers:               map[string]string{},
			QueryStringParameters: map[string]string{},
			PathParameters:        map[string]string{},
			Body:                  string(body),
		}
		for k := range r.Header {
			req.Headers[strings.ToLower(k)] = r.Header.Get(k)
		}
		for k := range r.URL.Query() {
			req.QueryStringParameters[k] = r.URL.Query().Get(k)
		}
		if rc := chi.RouteContext(r.Context()); rc != nil {
			req.Resource = rc.RoutePattern()
			for i, k := range rc.URLParams.Keys {
				req.PathParameters[k] = rc.URLParams.Values[i]
			}
		}

		resp, err := fn(r.Context(), req)
		if err != nil {
			resp, _ = httpx.Error(http.StatusInternalServerError, "internal error")
		}
		writeResponse(w, resp)
	}
}

func writeResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body)
}
