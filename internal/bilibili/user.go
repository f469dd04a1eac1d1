package bilibili

import (
	"context"

	"github.com/j-veylop/biliinsight-tui/internal/models"
)

type navData struct {
	IsLogin   bool   `json:"isLogin"`
	MID       int64  `json:"mid"`
	UName     string `json:"uname"`
	Face      string `json:"face"`
	LevelInfo struct {
		CurrentLevel int `json:"current_level"`
	} `json:"level_info"`
}

// UserInfo returns the account behind the session. An expired session yields
// an error matching ErrNotLoggedIn.
func (c *Client) UserInfo(ctx context.Context, session models.Session) (*models.UserInfo, error) {
	const op = "user info"

	env, _, err := c.get(ctx, op, c.config.APIBaseURL+"/x/web-interface/nav", nil, &session)
	if err != nil {
		return nil, err
	}

	var data navData
	if err := decodeData(op, env, &data); err != nil {
		return nil, err
	}
	if !data.IsLogin {
		return nil, &FeedError{Op: op, Code: codeNotLoggedIn, Message: "account is not logged in"}
	}

	return &models.UserInfo{
		MID:     data.MID,
		UName:   data.UName,
		Face:    data.Face,
		Level:   data.LevelInfo.CurrentLevel,
		IsLogin: data.IsLogin,
	}, nil
}
