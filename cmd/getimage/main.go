// Package main returns one image by id.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/kylejryan/image-groups/internal/app"
)

func main() {
	a, err := app.New(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	defer a.Log.Sync() //nolint:errcheck
	lambda.Start(a.Gateway().GetImage)
}
