package usecase

import (
	"context"
	"io"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/bqrun/pkg/domain/model"
	"github.com/secmon-lab/bqrun/pkg/domain/types"
	"github.com/secmon-lab/bqrun/pkg/infra/apierr"
	"github.com/secmon-lab/bqrun/pkg/utils"
)

// LoadQuery reads the object of src and returns it as SQL text without any modification.
func (x *UseCase) LoadQuery(ctx context.Context, src model.QuerySource) (string, error) {
	reader, err := x.clients.CloudStorage().Open(ctx, src)
	if err != nil {
		err = goerr.Wrap(apierr.Translate(err), "failed to open query object", goerr.V("source", src))
		utils.HandleError(ctx, "failed to load query", err)
		return "", err
	}
	defer utils.SafeClose(reader)

	raw, err := io.ReadAll(reader)
	if err != nil {
		err = goerr.Wrap(apierr.Translate(err), "failed to read query object", goerr.V("source", src))
		utils.HandleError(ctx, "failed to load query", err)
		return "", err
	}

	if !utf8.Valid(raw) {
		err := goerr.Wrap(
			types.NewKindError(types.KindUnexpected, goerr.New("query object is not UTF-8 text")),
			"failed to decode query object",
			goerr.V("source", src),
			goerr.V("size", len(raw)),
		)
		utils.HandleError(ctx, "failed to load query", err)
		return "", err
	}

	utils.CtxLogger(ctx).Debug("query loaded", "source", src, "size", len(raw))

	return string(raw), nil
}
