package endpoints

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/lessonpress/internal/api"
	"github.com/jackzampolin/lessonpress/internal/lesson"
	"github.com/jackzampolin/lessonpress/internal/svcctx"
)

// TopicsResponse lists the topic records in a table.
type TopicsResponse struct {
	Table  string               `json:"table"`
	Count  int                  `json:"count"`
	Topics []lesson.TopicRecord `json:"topics"`
}

// ListTopicsEndpoint handles GET /api/topics/{table}.
type ListTopicsEndpoint struct{}

func (e *ListTopicsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/topics/{table}", e.handler
}

func (e *ListTopicsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	List topics
//	@Tags		content
//	@Produce	json
//	@Param		table	path		string	true	"Topic table"
//	@Success	200		{object}	TopicsResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	502		{object}	ErrorResponse
//	@Router		/api/topics/{table} [get]
func (e *ListTopicsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	wf := svcctx.WorkflowFrom(r.Context())
	if wf == nil {
		notInitialized(w)
		return
	}

	table := r.PathValue("table")
	topics, err := wf.Topics(r.Context(), table)
	if err != nil {
		writeCodedError(w, err)
		return
	}
	if topics == nil {
		topics = []lesson.TopicRecord{}
	}
	writeJSON(w, http.StatusOK, TopicsResponse{Table: table, Count: len(topics), Topics: topics})
}

func (e *ListTopicsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "topics <table>",
		Short: "List the topic records in a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp TopicsResponse
			if err := client.Get(cmd.Context(), "/api/topics/"+url.PathEscape(args[0]), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
