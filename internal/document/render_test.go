package document

import (
	"strings"
	"testing"
)

func sampleDoc() *Node {
	return &Node{
		Type: "doc",
		Children: []Node{
			{Type: "heading", Attrs: map[string]string{"level": "1"}, Children: []Node{
				{Type: "text", Attrs: map[string]string{"text": "Summer range"}},
			}},
			{Type: "paragraph", Children: []Node{
				{Type: "text", Attrs: map[string]string{"text": "Now in stock: "}},
				{Type: "text", Attrs: map[string]string{"text": "Stout 33cl", "bold": "true"}},
			}},
			{Type: "video", Attrs: map[string]string{"src": "https://youtu.be/AbCdEfGhIjK"}},
		},
	}
}

func TestRenderSampleDoc(t *testing.T) {
	t.Parallel()

	got := Render(sampleDoc(), DefaultAllowList())

	want := `<h1>Summer range</h1>` +
		`<p>Now in stock: <strong>Stout 33cl</strong></p>` +
		`<iframe src="https://www.youtube.com/embed/AbCdEfGhIjK" allowfullscreen></iframe>`

	if got != want {
		t.Errorf("unexpected output:\n got %q\nwant %q", got, want)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	t.Parallel()

	doc := sampleDoc()
	allow := DefaultAllowList()

	first := Render(doc, allow)
	for i := 0; i < 10; i++ {
		if got := Render(doc, allow); got != first {
			t.Fatalf("render %d differs from first render:\n got %q\nwant %q", i, got, first)
		}
	}
}

func TestRenderDropsDisallowedNodes(t *testing.T) {
	t.Parallel()

	doc := &Node{
		Type: "doc",
		Children: []Node{
			{Type: "paragraph", Children: []Node{
				{Type: "text", Attrs: map[string]string{"text": "kept"}},
			}},
			{Type: "script", Attrs: map[string]string{"text": "alert(1)"}, Children: []Node{
				{Type: "text", Attrs: map[string]string{"text": "smuggled"}},
			}},
		},
	}

	got := Render(doc, DefaultAllowList())

	if !strings.Contains(got, "kept") {
		t.Errorf("allowed sibling missing from output: %q", got)
	}
	if strings.Contains(got, "script") || strings.Contains(got, "alert") || strings.Contains(got, "smuggled") {
		t.Errorf("disallowed node leaked into output: %q", got)
	}
}

func TestRenderNarrowedAllowList(t *testing.T) {
	t.Parallel()

	// a tightened allow-list silences previously valid nodes
	allow := NewAllowList("doc", "paragraph", "text")

	got := Render(sampleDoc(), allow)

	if strings.Contains(got, "<h1>") || strings.Contains(got, "iframe") {
		t.Errorf("narrowed allow-list still emitted excluded markup: %q", got)
	}
	if !strings.Contains(got, "Now in stock") {
		t.Errorf("allowed paragraph missing: %q", got)
	}
}

func TestRenderEscapesText(t *testing.T) {
	t.Parallel()

	doc := &Node{
		Type: "doc",
		Children: []Node{
			{Type: "paragraph", Children: []Node{
				{Type: "text", Attrs: map[string]string{"text": `<img onerror="x">&`}},
			}},
		},
	}

	got := Render(doc, DefaultAllowList())

	if strings.Contains(got, "<img") {
		t.Errorf("raw markup leaked through text node: %q", got)
	}
	if !strings.Contains(got, "&lt;img") || !strings.Contains(got, "&amp;") {
		t.Errorf("text not escaped: %q", got)
	}
}

func TestRenderImageSources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want bool
	}{
		{name: "relative", src: "/assets/label.png", want: true},
		{name: "https", src: "https://cdn.example.com/label.png", want: true},
		{name: "javascript scheme", src: "javascript:alert(1)", want: false},
		{name: "data scheme", src: "data:text/html,x", want: false},
		{name: "empty", src: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := &Node{Type: "doc", Children: []Node{
				{Type: "image", Attrs: map[string]string{"src": tt.src, "alt": "label"}},
			}}

			got := Render(doc, DefaultAllowList())
			if rendered := strings.Contains(got, "<img"); rendered != tt.want {
				t.Errorf("src %q: rendered=%v, want %v (output %q)", tt.src, rendered, tt.want, got)
			}
		})
	}
}

func TestRenderEmptyDoc(t *testing.T) {
	t.Parallel()

	if got := Render(nil, DefaultAllowList()); got != "" {
		t.Errorf("nil doc should render nothing, got %q", got)
	}
	if got := Render(&Node{Type: "doc"}, DefaultAllowList()); got != "" {
		t.Errorf("childless doc should render nothing, got %q", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	raw, err := sampleDoc().Marshal()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	parsed, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if got, want := Render(parsed, DefaultAllowList()), Render(sampleDoc(), DefaultAllowList()); got != want {
		t.Errorf("round-tripped doc renders differently:\n got %q\nwant %q", got, want)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := Parse(nil); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Error("expected error for invalid json")
	}
	if _, err := Parse([]byte(`{"attrs":{}}`)); err == nil {
		t.Error("expected error for missing root type")
	}
}
