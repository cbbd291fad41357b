package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/api"
	"github.com/jackzampolin/lessonpress/internal/lesson"
	"github.com/jackzampolin/lessonpress/internal/pipeline"
	"github.com/jackzampolin/lessonpress/internal/svcctx"
)

// GenerateRequest names the topic table to process.
type GenerateRequest struct {
	Table string `json:"table"`
}

// GenerateResponse is returned when a run completes.
type GenerateResponse struct {
	Report  *pipeline.Report         `json:"report"`
	Records []lesson.PersistedLesson `json:"records"`
}

// GenerateEndpoint handles POST /api/content/generate.
type GenerateEndpoint struct{}

func (e *GenerateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/content/generate", e.handler
}

func (e *GenerateEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Generate and store lessons
//	@Description	Generates a lesson for every topic in the table and stores it. The request blocks until the run ends.
//	@Tags			content
//	@Accept			json
//	@Produce		json
//	@Param			request	body		GenerateRequest	true	"Topic table"
//	@Success		200		{object}	GenerateResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/content/generate [post]
func (e *GenerateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	wf := svcctx.WorkflowFrom(r.Context())
	if wf == nil {
		notInitialized(w)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, agenterr.CodeInvalidRequest, "invalid request body: "+err.Error())
		return
	}

	report, err := wf.GenerateAndStore(r.Context(), req.Table)
	if err != nil {
		if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
			logger.Warn("generate request failed", "table", req.Table, "code", agenterr.CodeOf(err), "error", err)
		}
		writeCodedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{Report: report, Records: report.Records()})
}

func (e *GenerateEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <table>",
		Short: "Generate and store lessons for every topic in a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp GenerateResponse
			if err := client.Post(cmd.Context(), "/api/content/generate", GenerateRequest{Table: args[0]}, &resp); err != nil {
				return err
			}
			return api.Output(resp.Report)
		},
	}
}
