package parser

import "testing"

func TestExtractMetadata(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		content string
		image   string
		author  string
	}{
		{
			name:    "both tags",
			input:   "A quiet librarian. [lumia_img=http://x/img.png][lumia_author=Bob]",
			content: "A quiet librarian.",
			image:   "http://x/img.png",
			author:  "Bob",
		},
		{
			name:    "no tags",
			input:   "  Plain text.  ",
			content: "Plain text.",
		},
		{
			name:    "author only",
			input:   "[lumia_author= Ada ] Text",
			content: "Text",
			author:  "Ada",
		},
		{
			name:    "only first image tag is removed",
			input:   "[lumia_img=a.png] body [lumia_img=b.png]",
			content: "body [lumia_img=b.png]",
			image:   "a.png",
		},
		{
			name:    "empty tag value is stripped without a value",
			input:   "body [lumia_img=]",
			content: "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMetadata(tt.input)
			if got.CleanContent != tt.content {
				t.Errorf("content = %q, want %q", got.CleanContent, tt.content)
			}
			if deref(got.Image) != tt.image {
				t.Errorf("image = %q, want %q", deref(got.Image), tt.image)
			}
			if deref(got.Author) != tt.author {
				t.Errorf("author = %q, want %q", deref(got.Author), tt.author)
			}
		})
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
