package cli

import (
	"fmt"
	"io"

	"github.com/amio-io/json-validations-lib/pkg/console"
	"github.com/amio-io/json-validations-lib/pkg/schema"
)

// ListSchemas prints a table of the schemas found in dir
func ListSchemas(dir string, out io.Writer) error {
	store, err := schema.LoadDir(dir)
	if err != nil {
		return err
	}

	ids := store.IDs()
	if len(ids) == 0 {
		fmt.Fprintln(out, console.FormatInfoMessage(fmt.Sprintf("No schemas found in %s", dir)))
		return nil
	}

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		file, _ := store.File(id)
		rows = append(rows, []string{id, console.ToRelativePath(file)})
	}

	fmt.Fprint(out, console.RenderTable(console.TableConfig{
		Title:    fmt.Sprintf("Schemas in %s", dir),
		Headers:  []string{"Schema ID", "File"},
		Rows:     rows,
		TotalRow: []string{"Total", fmt.Sprintf("%d", len(ids))},
	}))
	return nil
}
