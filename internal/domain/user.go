package domain

import "context"

type ContextKey string

const AdminContextKey ContextKey = "admin"

const RoleAdmin = "admin"

// Admin is the authenticated console user, built from token claims.
type Admin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func AdminFromContext(ctx context.Context) (*Admin, bool) {
	a, ok := ctx.Value(AdminContextKey).(*Admin)
	return a, ok && a != nil
}

// ActorID is the id recorded in history entries; empty when unauthenticated.
func ActorID(ctx context.Context) string {
	if a, ok := AdminFromContext(ctx); ok {
		return a.ID
	}
	return ""
}
