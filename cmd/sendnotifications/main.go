// Package main confirms uploads from S3 ObjectCreated events and sends one
// notification per upload.
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

	n, err := a.Notifier()
	if err != nil {
		a.Log.Fatal(err.Error())
	}
	lambda.Start(n.HandleS3Event)
}
