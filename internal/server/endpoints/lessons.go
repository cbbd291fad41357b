package endpoints

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/lessonpress/internal/api"
	"github.com/jackzampolin/lessonpress/internal/lesson"
	"github.com/jackzampolin/lessonpress/internal/svcctx"
	"github.com/jackzampolin/lessonpress/internal/workflow"
)

// LessonsResponse lists stored lessons.
type LessonsResponse struct {
	Subject string                   `json:"subject"`
	Class   string                   `json:"class"`
	Count   int                      `json:"count"`
	Lessons []lesson.PersistedLesson `json:"lessons"`
}

// ListLessonsEndpoint handles GET /api/lessons.
type ListLessonsEndpoint struct{}

func (e *ListLessonsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/lessons", e.handler
}

func (e *ListLessonsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	List stored lessons
//	@Tags		content
//	@Produce	json
//	@Param		subject	query		string	true	"Subject"
//	@Param		class	query		string	true	"Class level, e.g. PRIMARY_3"
//	@Success	200		{object}	LessonsResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	502		{object}	ErrorResponse
//	@Router		/api/lessons [get]
func (e *ListLessonsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	wf := svcctx.WorkflowFrom(r.Context())
	if wf == nil {
		notInitialized(w)
		return
	}

	q := r.URL.Query()
	req := workflow.LessonsRequest{Subject: q.Get("subject"), Class: q.Get("class")}
	lessons, err := wf.Lessons(r.Context(), req)
	if err != nil {
		writeCodedError(w, err)
		return
	}
	if lessons == nil {
		lessons = []lesson.PersistedLesson{}
	}
	writeJSON(w, http.StatusOK, LessonsResponse{
		Subject: req.Subject,
		Class:   req.Class,
		Count:   len(lessons),
		Lessons: lessons,
	})
}

func (e *ListLessonsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var subject, class string
	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "List stored lessons for a subject and class",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			q := url.Values{"subject": {subject}, "class": {class}}
			var resp LessonsResponse
			if err := client.Get(cmd.Context(), "/api/lessons?"+q.Encode(), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "Subject name")
	cmd.Flags().StringVar(&class, "class", "", "Class level, e.g. PRIMARY_3")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}
