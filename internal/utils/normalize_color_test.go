package utils

import (
	"testing"

	"github.com/matryer/is"
)

func TestNormalizeColor(t *testing.T) {
	tests := map[string]string{
		"#00aa00": "#00AA00",
		"ff0000":  "#FF0000",
		" #abc ":  "#AABBCC",
		"red":     "",
		"#12345":  "",
		"":        "",
		"#3388ff": "#3388FF",
		"#GGGGGG": "",
	}

	for in, want := range tests {
		is := is.New(t)
		is.Equal(NormalizeColor(in), want)
	}
}
