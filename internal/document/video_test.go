package document

import "testing"

func TestVideoID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{name: "watch form", url: "https://www.youtube.com/watch?v=AbCdEfGhIjK", want: "AbCdEfGhIjK", wantOK: true},
		{name: "short form", url: "https://youtu.be/AbCdEfGhIjK", want: "AbCdEfGhIjK", wantOK: true},
		{name: "embed form", url: "https://www.youtube.com/embed/AbCdEfGhIjK", want: "AbCdEfGhIjK", wantOK: true},
		{name: "watch without www", url: "https://youtube.com/watch?v=AbCdEfGhIjK", want: "AbCdEfGhIjK", wantOK: true},
		{name: "mobile host", url: "https://m.youtube.com/watch?v=AbCdEfGhIjK", want: "AbCdEfGhIjK", wantOK: true},
		{name: "short form with query", url: "https://youtu.be/AbCdEfGhIjK?t=42", want: "AbCdEfGhIjK", wantOK: true},
		{name: "unrelated host", url: "https://vimeo.com/123456789", wantOK: false},
		{name: "watch without v param", url: "https://www.youtube.com/watch?list=PL123", wantOK: false},
		{name: "id too short", url: "https://youtu.be/AbCdEf", wantOK: false},
		{name: "id too long", url: "https://youtu.be/AbCdEfGhIjKL", wantOK: false},
		{name: "not a url", url: "label.png", wantOK: false},
		{name: "empty", url: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := VideoID(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("VideoID(%q) ok = %v, want %v", tt.url, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("VideoID(%q) = %q, want %q", tt.url, got, tt.want)
			}
			if !ok && got != "" {
				t.Errorf("VideoID(%q) returned partial id %q on failure", tt.url, got)
			}
		})
	}
}
