// utils/firebase.go
package utils

import (
	"context"
	"log"

	"pawhaven/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	FCMClient      *messaging.Client
	FirebaseAuth   *auth.Client
	firebaseAppRef *firebase.App
)

// FirebaseInit initializes the Firebase App, Auth and Messaging clients.
// Auth is the external identity provider; account cleanup on admin bans
// goes through FirebaseAuth.
func FirebaseInit() {
	ctx := context.Background()
	opt := option.WithCredentialsFile(config.FirebaseServiceAccountKeyPath)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		log.Fatalf("firebase: error initializing app: %v", err)
	}
	firebaseAppRef = app

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Messaging client: %v", err)
	}
	FCMClient = client

	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Auth client: %v", err)
	}
	FirebaseAuth = authClient
}
