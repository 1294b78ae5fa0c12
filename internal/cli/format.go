package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gitpan/App-dropboxapi/internal/types"
	"github.com/gitpan/App-dropboxapi/internal/utils"
)

// Formatter renders listing entries through a template of closed, named
// placeholders. Unknown placeholders are rejected at parse time and never
// evaluated.
type Formatter struct {
	template string
}

// placeholders maps each verb to its field accessor
var placeholders = map[byte]func(m *types.Metadata) string{
	'p': func(m *types.Metadata) string { return m.Path },
	'b': func(m *types.Metadata) string { return fmt.Sprintf("%d", m.Bytes) },
	's': func(m *types.Metadata) string {
		if m.IsDir {
			return "-"
		}
		return humanize.IBytes(uint64(m.Bytes))
	},
	'm': func(m *types.Metadata) string { return m.Modified },
	't': func(m *types.Metadata) string { return m.MimeType },
	'r': func(m *types.Metadata) string { return m.Rev },
	'i': func(m *types.Metadata) string { return m.Icon },
	'd': func(m *types.Metadata) string {
		if m.IsDir {
			return "d"
		}
		return "-"
	},
}

// NewFormatter validates the template
func NewFormatter(template string) (*Formatter, error) {
	for i := 0; i < len(template); i++ {
		if template[i] != '%' {
			continue
		}
		if i+1 >= len(template) {
			return nil, formatError("template ends with a bare %")
		}
		i++
		if template[i] == '%' {
			continue
		}
		if _, ok := placeholders[template[i]]; !ok {
			return nil, formatError(fmt.Sprintf("unknown placeholder %%%c", template[i]))
		}
	}
	return &Formatter{template: template}, nil
}

// Render expands the template for one entry
func (f *Formatter) Render(m *types.Metadata) string {
	var b strings.Builder
	t := f.template
	for i := 0; i < len(t); i++ {
		if t[i] != '%' {
			b.WriteByte(t[i])
			continue
		}
		i++
		if t[i] == '%' {
			b.WriteByte('%')
			continue
		}
		b.WriteString(placeholders[t[i]](m))
	}
	return b.String()
}

func formatError(msg string) error {
	return utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidFormat, msg).Build())
}
