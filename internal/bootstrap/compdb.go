package bootstrap

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"

	"github.com/tidwall/gjson"
)

// CompileCommandsFile is the name of the exported compilation database.
const CompileCommandsFile = "compile_commands.json"

// Summary describes an exported compilation database.
type Summary struct {
	Entries int
	Files   int
}

func (s Summary) String() string {
	return fmt.Sprintf("compilation database has %d entries for %d files", s.Entries, s.Files)
}

// InvalidDatabaseError is returned for a compilation database that is not a JSON array.
type InvalidDatabaseError struct {
	Path string
}

func (e *InvalidDatabaseError) Error() string {
	return fmt.Sprintf("%s is not a JSON array of compile commands", e.Path)
}

// Summarize counts the entries and distinct files of a compile_commands.json.
func Summarize(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, err
	}
	if !gjson.ValidBytes(data) {
		return Summary{}, &InvalidDatabaseError{Path: path}
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return Summary{}, &InvalidDatabaseError{Path: path}
	}

	files := make(map[string]struct{})
	for _, f := range doc.Get("#.file").Array() {
		files[f.String()] = struct{}{}
	}

	return Summary{
		Entries: int(doc.Get("#").Int()),
		Files:   len(files),
	}, nil
}

// IsMissing reports whether err means the database file does not exist.
func IsMissing(err error) bool {
	return errors.Is(err, iofs.ErrNotExist)
}
