package upstream

import (
	"context"
	"net/http"
)

// CheckPassword asks the backend whether password matches the single
// owner account. Only the password travels over the wire; the email is
// checked locally before this is called.
func (c *Client) CheckPassword(ctx context.Context, password string) (bool, error) {
	ctx, span := tracer.Start(ctx, "upstream.CheckPassword")
	defer span.End()

	payload := struct {
		Password string `json:"password"`
	}{Password: password}

	var result struct {
		Match bool `json:"match"`
	}
	if err := c.call(ctx, "check_password", http.MethodPost, "password/match", payload, &result, nil); err != nil {
		return false, err
	}
	return result.Match, nil
}

// ChangePassword rotates the owner password on the backend.
func (c *Client) ChangePassword(ctx context.Context, current, new string) error {
	ctx, span := tracer.Start(ctx, "upstream.ChangePassword")
	defer span.End()

	payload := struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}{CurrentPassword: current, NewPassword: new}

	return c.call(ctx, "change_password", http.MethodPost, "password/change", payload, nil, nil)
}
