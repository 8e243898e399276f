package corpus

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/policyqa/internal/model"
)

var (
	titleRe   = regexp.MustCompile(`Title:\s*(.+)`)
	versionRe = regexp.MustCompile(`Version:\s*(.+)`)
)

// Load reads every *.txt file in dir (lexical order) into a Corpus.
// A document's title and version come from "Title:" and "Version:" header
// lines in its content; the title falls back to the file stem and a
// missing version leaves the document undated. A missing directory is
// not an error: it yields an empty corpus and a warning, and every query
// then degrades to the insufficient-information answer.
func Load(dir string) (*Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Warn("corpus: documents directory not found", zap.String("dir", dir))
			return New(nil), nil
		}
		return nil, eris.Wrapf(err, "corpus: read dir %s", dir)
	}

	var docs []model.Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, eris.Wrapf(err, "corpus: read %s", entry.Name())
		}
		content := string(raw)

		title := strings.TrimSuffix(entry.Name(), ".txt")
		if m := titleRe.FindStringSubmatch(content); m != nil {
			title = strings.TrimSpace(m[1])
		}

		var version string
		if m := versionRe.FindStringSubmatch(content); m != nil {
			version = strings.TrimSpace(m[1])
		}

		doc := model.NewDocument(title, content, entry.Name(), version)
		docs = append(docs, doc)
		zap.L().Info("corpus: loaded document",
			zap.String("title", doc.Title),
			zap.String("uri", doc.URI),
			zap.String("version", doc.Version),
		)
	}

	return New(docs), nil
}
