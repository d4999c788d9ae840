package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLineBreaks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "all br variants",
			in:   "Line1<br>Line2<br/>Line3<br />Line4",
			want: "Line1\nLine2\nLine3\nLine4",
		},
		{
			name: "case insensitive",
			in:   "a<BR>b<Br/>c<bR />d",
			want: "a\nb\nc\nd",
		},
		{
			name: "no markup",
			in:   "plain text\nwith newlines",
			want: "plain text\nwith newlines",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "extra spaces before slash",
			in:   "x<br   />y",
			want: "x\ny",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLineBreaks(tt.in))
		})
	}
}

func TestPDFTextRejectsGarbage(t *testing.T) {
	_, err := PDFText([]byte("definitely not a pdf"))
	require.Error(t, err)
}

func TestDocxTextRejectsGarbage(t *testing.T) {
	_, err := DocxText([]byte("definitely not a docx"))
	require.Error(t, err)
}
