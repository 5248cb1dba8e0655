package utils

import "context"

type contextKey string

// AccountIDCtxKey stores the authenticated account id set by the auth
// middleware.
const AccountIDCtxKey contextKey = "account_id"

// AccountIDFromContext returns the authenticated account id, or "" when the
// request did not pass the auth middleware.
func AccountIDFromContext(ctx context.Context) string {
	accountID, _ := ctx.Value(AccountIDCtxKey).(string)
	return accountID
}
