package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTitleOrg(t *testing.T) {
	keywords := DefaultVocabulary().TitleKeywords

	tests := []struct {
		name      string
		span      string
		wantTitle string
		wantOrg   string
	}{
		{"keyword in list", "王小華分析師某署統計處", "王小華分析師", "某署統計處"},
		{"list order beats leftmost position", "主任專員某局", "主任專員", "某局"},
		{"earlier keyword wins over later one", "張科員兼主任某局", "張科員", "兼主任某局"},
		{"organization is trimmed", "王大明書記官  臺北市政府 ", "王大明書記官", "臺北市政府"},
		{"three rune fallback", "王大明臺北市政府", "王大明", "臺北市政府"},
		{"span shorter than fallback width", "王大", "王大", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, org := SplitTitleOrg(tt.span, keywords, 3)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantOrg, org)
		})
	}
}

func TestSplitTitleOrgIsDeterministic(t *testing.T) {
	keywords := DefaultVocabulary().TitleKeywords
	for i := 0; i < 50; i++ {
		title, org := SplitTitleOrg("王小華分析師某署統計處", keywords, 3)
		assert.Equal(t, "王小華分析師", title)
		assert.Equal(t, "某署統計處", org)
	}
}
