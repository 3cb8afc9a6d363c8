package mdmath

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type mockContainer struct {
	calls      []string
	content    string
	styles     map[string]string
	replaceErr error
	styleErr   error
}

func (m *mockContainer) ReplaceContent(_ context.Context, htmlContent string) error {
	m.calls = append(m.calls, "replace")
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.content = htmlContent
	return nil
}

func (m *mockContainer) SetStyleProperty(_ context.Context, name, value string) error {
	m.calls = append(m.calls, "style")
	if m.styleErr != nil {
		return m.styleErr
	}
	if m.styles == nil {
		m.styles = make(map[string]string)
	}
	m.styles[name] = value
	return nil
}

func TestPresent(t *testing.T) {
	t.Parallel()

	errUpdate := errors.New("update failed")

	tests := []struct {
		name        string
		container   *mockContainer
		opts        []PresentOption
		wantErr     error
		wantCalls   string
		wantDisplay string
	}{
		{
			name:        "replaces content then shows",
			container:   &mockContainer{},
			wantCalls:   "replace,style",
			wantDisplay: "block",
		},
		{
			name:        "custom display",
			container:   &mockContainer{},
			opts:        []PresentOption{WithDisplay("inline-block")},
			wantCalls:   "replace,style",
			wantDisplay: "inline-block",
		},
		{
			name:      "empty display leaves style alone",
			container: &mockContainer{},
			opts:      []PresentOption{WithDisplay("")},
			wantCalls: "replace",
		},
		{
			name:      "invalid display value",
			container: &mockContainer{},
			opts:      []PresentOption{WithDisplay("block; color: red")},
			wantErr:   ErrInvalidDisplayValue,
			wantCalls: "",
		},
		{
			name:      "replace error stops before showing",
			container: &mockContainer{replaceErr: errUpdate},
			wantErr:   errUpdate,
			wantCalls: "replace",
		},
		{
			name:      "style error",
			container: &mockContainer{styleErr: errUpdate},
			wantErr:   errUpdate,
			wantCalls: "replace,style",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Present(context.Background(), Fragment("<p>x</p>"), tt.container, tt.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := strings.Join(tt.container.calls, ","); got != tt.wantCalls {
				t.Errorf("calls = %q, want %q", got, tt.wantCalls)
			}
			if tt.wantErr == nil && tt.container.content != "<p>x</p>" {
				t.Errorf("content = %q", tt.container.content)
			}
			if tt.wantDisplay != "" && tt.container.styles["display"] != tt.wantDisplay {
				t.Errorf("display = %q, want %q", tt.container.styles["display"], tt.wantDisplay)
			}
		})
	}
}

func TestPresent_NilContainer(t *testing.T) {
	t.Parallel()

	if err := Present(context.Background(), "x", nil); !errors.Is(err, ErrNilCollaborator) {
		t.Errorf("expected ErrNilCollaborator, got %v", err)
	}
}

func TestPresent_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &mockContainer{}
	if err := Present(ctx, "x", c); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(c.calls) != 0 {
		t.Errorf("container touched after cancellation: %v", c.calls)
	}
}

const testHostPage = `<!DOCTYPE html><html><head><title>t</title></head>` +
	`<body><main id="content" class="mdmath" style="color: red; display: none;"><p>old</p></main></body></html>`

func parseTestPage(t *testing.T) *HTMLDocument {
	t.Helper()
	doc, err := ParseHTMLDocument(strings.NewReader(testHostPage))
	if err != nil {
		t.Fatalf("ParseHTMLDocument() error = %v", err)
	}
	return doc
}

func TestHTMLDocument_Container(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		selector string
		wantErr  error
	}{
		{name: "id selector", selector: "#content"},
		{name: "class selector", selector: "main.mdmath"},
		{name: "missing element", selector: "#nope", wantErr: ErrContainerNotFound},
		{name: "invalid selector", selector: "main[", wantErr: ErrInvalidSelector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := parseTestPage(t).Container(tt.selector)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.InnerHTML() != "<p>old</p>" {
				t.Errorf("InnerHTML() = %q", c.InnerHTML())
			}
		})
	}
}

func TestHTMLContainer_Present(t *testing.T) {
	t.Parallel()

	doc := parseTestPage(t)
	c, err := doc.Container(DefaultSelector)
	if err != nil {
		t.Fatalf("Container() error = %v", err)
	}

	frag := Fragment(`<h1 id="t">T</h1><p><span class="math math-inline">x</span></p>`)
	if err := Present(context.Background(), frag, c); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	if c.InnerHTML() != frag.String() {
		t.Errorf("InnerHTML() = %q, want %q", c.InnerHTML(), frag)
	}
	if got := c.StyleProperty("display"); got != "block" {
		t.Errorf("display = %q, want block", got)
	}
	if got := c.StyleProperty("color"); got != "red" {
		t.Errorf("color = %q, want other declarations kept", got)
	}

	out := doc.String()
	if strings.Contains(out, "old") {
		t.Errorf("previous content should be replaced, got %q", out)
	}
	if !strings.Contains(out, `style="color: red; display: block;"`) {
		t.Errorf("style attribute not updated in output: %q", out)
	}
}

func TestHTMLContainer_SetStyleProperty_NoStyle(t *testing.T) {
	t.Parallel()

	doc, err := ParseHTMLDocument(strings.NewReader(`<div id="c"></div>`))
	if err != nil {
		t.Fatalf("ParseHTMLDocument() error = %v", err)
	}
	c, err := doc.Container("#c")
	if err != nil {
		t.Fatalf("Container() error = %v", err)
	}

	if err := c.SetStyleProperty(context.Background(), "display", "flex"); err != nil {
		t.Fatalf("SetStyleProperty() error = %v", err)
	}
	if got := c.StyleProperty("display"); got != "flex" {
		t.Errorf("display = %q, want flex", got)
	}
}

func TestHTMLContainer_StyleWithoutTrailingSemicolon(t *testing.T) {
	t.Parallel()

	doc, err := ParseHTMLDocument(strings.NewReader(`<div id="c" style="display: none"></div>`))
	if err != nil {
		t.Fatalf("ParseHTMLDocument() error = %v", err)
	}
	c, err := doc.Container("#c")
	if err != nil {
		t.Fatalf("Container() error = %v", err)
	}

	if got := c.StyleProperty("display"); got != "none" {
		t.Errorf("display = %q, want none", got)
	}
}

func TestHTMLDocument_AppendStyle(t *testing.T) {
	t.Parallel()

	doc := parseTestPage(t)
	if err := doc.AppendStyle(".math { color: blue; } </style><script>x</script>"); err != nil {
		t.Fatalf("AppendStyle() error = %v", err)
	}

	out := doc.String()
	if !strings.Contains(out, "<style>.math { color: blue; }") {
		t.Errorf("style not appended: %q", out)
	}
	if strings.Contains(out, "</style><script>") {
		t.Errorf("stylesheet escaped its element: %q", out)
	}
}
