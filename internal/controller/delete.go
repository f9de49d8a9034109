package controller

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/grahamford77/table-tennis/internal/dom"
	"github.com/grahamford77/table-tennis/internal/form"
	"github.com/grahamford77/table-tennis/internal/message"
	"github.com/grahamford77/table-tennis/internal/metrics"
	"github.com/grahamford77/table-tennis/internal/submit"
)

const (
	DeleteConfirm = "Are you sure you want to delete this tournament? This action cannot be undone."
	DeleteSuccess = "Tournament deleted successfully"
	DeleteFailed  = "Failed to delete tournament"

	// DeleteEndpoint is expanded with the tournament id.
	DeleteEndpoint = "/tournaments/delete/{tournamentId}"
)

// Deleter implements the tournament list's delete button.  It talks to the
// user through blocking dialogs and never touches the message region.
type Deleter struct {
	pipeline Submitter
	win      dom.Window
	log      *zap.SugaredLogger
	generic  string
	endpoint string
}

// NewDeleter returns a Deleter.  log may be nil.
func NewDeleter(p Submitter, win dom.Window, log *zap.SugaredLogger) *Deleter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Deleter{
		pipeline: p,
		win:      win,
		log:      log,
		generic:  message.GenericError,
		endpoint: DeleteEndpoint,
	}
}

// Delete asks for confirmation, then posts an empty request to the delete
// endpoint.  The boolean is false when the user declined; no request was
// made in that case.
func (d *Deleter) Delete(ctx context.Context, tournamentID string) (submit.Outcome, bool) {
	if !d.win.Confirm(DeleteConfirm) {
		metrics.DeleteRequests.WithLabelValues("declined").Inc()
		return submit.Outcome{}, false
	}

	endpoint := form.Expand(d.endpoint, map[string]string{
		"tournamentId": strings.TrimSpace(tournamentID),
	})
	out := <-d.pipeline.Go(ctx, endpoint, nil)
	metrics.DeleteRequests.WithLabelValues(out.Kind.String()).Inc()

	switch out.Kind {
	case submit.Success:
		d.win.Alert(out.MessageOr(DeleteSuccess))
		d.win.Reload()
	case submit.BusinessFailure:
		d.win.Alert(out.MessageOr(DeleteFailed))
	default:
		d.log.Errorw("delete failed", "tournament", tournamentID, "error", errString(out.Err))
		d.win.Alert(d.generic)
	}
	return out, true
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
