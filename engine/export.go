package engine

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func pdfConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// exportPDF turns the active document into a standalone PDF: PDFs are
// optimized, images are placed on a page of their own. The original file
// name is kept as a document property.
func exportPDF(format Format, name string, data []byte) ([]byte, error) {
	conf := pdfConfig()
	var body bytes.Buffer
	switch {
	case format.Kind == FormatPDF.Kind:
		if err := api.Optimize(bytes.NewReader(data), &body, conf); err != nil {
			return nil, fmt.Errorf("optimize %s: %w", name, err)
		}
	case format.IsImage():
		imp := pdfcpu.DefaultImportConfig()
		if err := api.ImportImages(nil, &body, []io.Reader{bytes.NewReader(data)}, imp, conf); err != nil {
			return nil, fmt.Errorf("import image %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("export %s: unsupported format %q", name, format.Kind)
	}

	var out bytes.Buffer
	properties := map[string]string{"Source": name}
	if err := api.AddProperties(bytes.NewReader(body.Bytes()), &out, properties, conf); err != nil {
		return nil, fmt.Errorf("set properties on %s: %w", name, err)
	}
	return out.Bytes(), nil
}
