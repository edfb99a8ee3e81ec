package account

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/qybrrlabs/portal/internal/app/service/session"
	"github.com/qybrrlabs/portal/pkg/logctx"
	"github.com/qybrrlabs/portal/pkg/types"
)

// DocumentAccessor reads and writes the current user's metadata document.
// Write is a top-level merge performed by the remote provider: keys present
// in patch overwrite same-named fields, absent keys are left untouched.
// There is no array-append primitive, so callers mutating an array field
// must include the complete new array value in the patch.
type DocumentAccessor interface {
	ReadCurrent(ctx context.Context, accessToken string) (*types.User, error)
	Write(ctx context.Context, accessToken string, patch map[string]interface{}) (*types.User, error)
}

type accessor struct {
	auth session.Authenticator
	log  *zap.SugaredLogger
}

func NewAccessor(auth session.Authenticator, log *zap.SugaredLogger) DocumentAccessor {
	return &accessor{auth: auth, log: log}
}

func (a *accessor) ReadCurrent(ctx context.Context, accessToken string) (*types.User, error) {
	user, err := a.auth.User(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read current user: %w", err)
	}
	return user, nil
}

func (a *accessor) Write(ctx context.Context, accessToken string, patch map[string]interface{}) (*types.User, error) {
	user, err := a.auth.UpdateUser(ctx, accessToken, map[string]interface{}{"data": patch})
	if err != nil {
		logctx.FromCtx(ctx, a.log).Warnf("metadata write rejected: %v", err)
		return nil, fmt.Errorf("metadata write rejected: %w", err)
	}
	return user, nil
}
