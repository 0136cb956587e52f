package api

import (
	"context"
	"errors"
)

type keyType string

const (
	userIDKey keyType = "userID"
	adminKey  keyType = "isAdmin"
)

// ctxWithUserID adds a user ID to the context
func ctxWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ctxGetUserID retrieves a user ID from the context
func ctxGetUserID(ctx context.Context) (string, error) {
	ctxValue := ctx.Value(userIDKey)
	if ctxValue == nil {
		return "", errors.New("user ID not found in context")
	}
	userID, ok := ctxValue.(string)
	if !ok {
		return "", errors.New("user ID is not of type `string`")
	}
	return userID, nil
}

func ctxWithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, adminKey, true)
}

func ctxIsAdmin(ctx context.Context) bool {
	isAdmin, ok := ctx.Value(adminKey).(bool)
	return ok && isAdmin
}
