package export

import (
	"bytes"
	"encoding/xml"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/derivlab/internal/eval"
	"github.com/san-kum/derivlab/internal/parse"
)

func TestPathBreaksAtNaN(t *testing.T) {
	fs := eval.Collect(eval.SampleRange(eval.Direct, parse.MustParse("tan(x)"), 0, math.Pi, 5))
	svg := SeriesToSVG([]Curve{{Label: "tan(x)", Color: "#fff", Series: fs}}, SVGOptions{Width: 100, Height: 50, XMin: 0, XMax: math.Pi})

	start := strings.Index(svg, ` d="`)
	if start < 0 {
		t.Fatalf("no path in output:\n%s", svg)
	}
	d := svg[start+4:]
	d = d[:strings.Index(d, `"`)]

	if got := strings.Count(d, "M"); got != 2 {
		t.Errorf("expected 2 subpaths, got %d: %s", got, d)
	}
	if got := strings.Count(d, "L"); got != 2 {
		t.Errorf("expected 2 line segments, got %d: %s", got, d)
	}
}

func TestWriteSVGIsWellFormed(t *testing.T) {
	fs := eval.Collect(eval.SampleRange(eval.Direct, parse.MustParse("x^2"), -1, 1, 21))
	dfs := eval.Collect(eval.SampleRange(eval.Direct, parse.MustParse("2x"), -1, 1, 21))

	var buf bytes.Buffer
	if err := WriteSVG(&buf, fs, dfs, "f(x) = x^2", "f'(x) = 2*x", SVGOptions{Width: 200, Height: 100, XMin: -1, XMax: 1, Title: "x^2 <demo>"}); err != nil {
		t.Fatal(err)
	}

	dec := xml.NewDecoder(&buf)
	paths, texts := 0, 0
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if se, ok := tok.(xml.StartElement); ok {
			switch se.Name.Local {
			case "path":
				paths++
			case "text":
				texts++
			}
		}
	}
	if paths != 2 {
		t.Errorf("expected 2 paths, got %d", paths)
	}
	if texts != 3 {
		t.Errorf("expected 3 labels, got %d", texts)
	}
}

func TestEmptySeriesHasNoPath(t *testing.T) {
	svg := SeriesToSVG([]Curve{{Label: "empty", Color: "#fff"}}, SVGOptions{Width: 10, Height: 10, XMin: 0, XMax: 1})
	if strings.Contains(svg, "<path") {
		t.Errorf("unexpected path for empty series:\n%s", svg)
	}
}
