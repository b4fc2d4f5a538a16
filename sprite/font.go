package sprite

import (
	"fmt"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	Regular *opentype.Font
	Bold    *opentype.Font
	Mono    *opentype.Font
)

var fontMap = map[string]struct {
	f   **opentype.Font
	ttf []byte
}{
	"regular": {&Regular, goregular.TTF},
	"bold":    {&Bold, gobold.TTF},
	"mono":    {&Mono, gomono.TTF},
}

func loadFonts() (err error) {
	for name, f := range fontMap {
		*f.f, err = opentype.Parse(f.ttf)
		if err != nil {
			return fmt.Errorf("parsing %s font: %w", name, err)
		}
	}
	return nil
}
