package surreal

import (
	"context"
	"encoding/json"

	"github.com/tidwall/sjson"

	"github.com/jackzampolin/lessonpress/internal/agenterr"
	"github.com/jackzampolin/lessonpress/internal/lesson"
)

// FetchTopics returns every topic record in table. A missing or empty table
// yields an empty slice.
func (c *Client) FetchTopics(ctx context.Context, table string) ([]lesson.TopicRecord, error) {
	if err := c.checkNames(table); err != nil {
		return nil, err
	}

	body, err := c.Query(ctx, c.batch(selectAll(table)), nil)
	if err != nil {
		return nil, err
	}

	topics, err := decodeRecords[lesson.TopicRecord](body, selectResultIndex)
	if err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		c.logger.Info("table is empty", "table", table)
	}
	return topics, nil
}

// PersistLesson writes content to the lesson table with source_id set to
// sourceID as a bare record reference.
func (c *Client) PersistLesson(ctx context.Context, content *lesson.CompleteLessonContent, sourceID string) (*lesson.PersistedLesson, error) {
	if content == nil {
		return nil, agenterr.New(agenterr.CodeStructToValue, "no lesson content to persist")
	}
	if sourceID == "" {
		return nil, agenterr.New(agenterr.CodeStructToValue, "topic has no id")
	}
	if err := ValidateRecordID(sourceID); err != nil {
		return nil, agenterr.Wrap(agenterr.CodeRequestBuild, err, "cannot reference source topic")
	}
	if err := c.checkNames(c.lessonTable); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(content)
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeStructToValue, err, "failed to serialize lesson")
	}
	payload, err = sjson.SetRawBytes(payload, "source_id", []byte(sourceID))
	if err != nil {
		return nil, agenterr.Wrap(agenterr.CodeJSONToStringParse, err, "failed to attach source_id")
	}

	body, err := c.Query(ctx, single(createContent(c.lessonTable, payload)), nil)
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords[lesson.PersistedLesson](body, createResultIndex)
	if err != nil {
		return nil, err
	}
	switch len(records) {
	case 0:
		return nil, agenterr.New(agenterr.CodeEmptyResult, "create in %s returned no records", c.lessonTable)
	case 1:
		c.logger.Debug("lesson persisted", "id", records[0].ID, "source_id", sourceID)
		return &records[0], nil
	default:
		return nil, agenterr.New(agenterr.CodeInsufficientResults, "create in %s returned %d records, want 1", c.lessonTable, len(records))
	}
}

// FetchLessons returns persisted lessons for subject and class, ordered by week.
func (c *Client) FetchLessons(ctx context.Context, subject string, class lesson.ClassLevel) ([]lesson.PersistedLesson, error) {
	if err := c.checkNames(c.lessonTable); err != nil {
		return nil, err
	}

	vars := map[string]string{
		"subject": subject,
		"class":   string(class),
	}
	body, err := c.Query(ctx, c.batch(selectLessons(c.lessonTable)), vars)
	if err != nil {
		return nil, err
	}

	lessons, err := decodeRecords[lesson.PersistedLesson](body, selectResultIndex)
	if err != nil {
		return nil, err
	}
	if len(lessons) == 0 {
		c.logger.Info("no lessons found", "subject", subject, "class", class)
	}
	return lessons, nil
}

func (c *Client) checkNames(table string) error {
	for _, name := range []string{table, c.namespace, c.database} {
		if err := ValidateTable(name); err != nil {
			return agenterr.Wrap(agenterr.CodeRequestBuild, err, "invalid statement")
		}
	}
	return nil
}
