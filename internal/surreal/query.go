package surreal

import (
	"fmt"
	"regexp"
)

// TablePattern matches table, namespace and database names that are safe to
// interpolate into a statement.
var TablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RecordIDPattern matches record ids ("table:key") and bare keys.
var RecordIDPattern = regexp.MustCompile(`^[A-Za-z0-9_]+(:[A-Za-z0-9_]+)?$`)

// ValidateTable checks if a name is safe to use as a table name.
func ValidateTable(name string) error {
	if name == "" {
		return fmt.Errorf("empty table name")
	}
	if len(name) > 128 {
		return fmt.Errorf("table name too long: %d characters", len(name))
	}
	if !TablePattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

// ValidateRecordID checks if an id is safe to embed unquoted in a statement.
func ValidateRecordID(id string) error {
	if id == "" {
		return fmt.Errorf("empty record id")
	}
	if len(id) > 256 {
		return fmt.Errorf("record id too long: %d characters", len(id))
	}
	if !RecordIDPattern.MatchString(id) {
		return fmt.Errorf("invalid record id %q", id)
	}
	return nil
}

// batch prefixes stmt with the namespace selection. The USE result takes
// the first slot of the response.
func (c *Client) batch(stmt string) string {
	return fmt.Sprintf("USE NS %s DB %s; %s;", c.namespace, c.database, stmt)
}

// single sends stmt on its own, scoped by the namespace request headers.
func single(stmt string) string {
	return stmt + ";"
}

func selectAll(table string) string {
	return "SELECT * FROM " + table
}

func createContent(table string, content []byte) string {
	return "CREATE " + table + " CONTENT " + string(content)
}

func selectLessons(table string) string {
	return "SELECT * FROM " + table + " WHERE subject = $subject AND class_level = $class ORDER BY week"
}
