package out

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ykwatch/internal/modules/credential/domain"
	credentialout "ykwatch/internal/modules/credential/port/out"
	"ykwatch/internal/platform/yuketang"
)

type APIIdentityClient struct {
	client *yuketang.Client
}

func NewAPIIdentityClient(client *yuketang.Client) credentialout.IdentityClient {
	return &APIIdentityClient{client: client}
}

func (c *APIIdentityClient) Fetch(ctx context.Context) (domain.CurrentUser, error) {
	data, err := c.client.UserInfo(ctx)
	if err != nil {
		return domain.CurrentUser{}, err
	}
	var raw struct {
		ID       json.RawMessage `json:"id"`
		UserID   json.RawMessage `json:"user_id"`
		Name     string          `json:"name"`
		RealName string          `json:"real_name"`
		Nickname string          `json:"nickname"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.CurrentUser{}, fmt.Errorf("decode user info: %w", err)
	}
	user := domain.CurrentUser{LoggedIn: true}
	for _, name := range []string{raw.Name, raw.RealName, raw.Nickname} {
		if name != "" {
			user.Name = name
			break
		}
	}
	for _, id := range []json.RawMessage{raw.ID, raw.UserID} {
		if len(id) > 0 && string(id) != "null" {
			user.ID = strings.Trim(string(id), `"`)
			break
		}
	}
	return user, nil
}
