package telegram

import (
	"fmt"
	"html"
	"strings"

	"go-dgpa-watcher/internal/models"
)

const emptyDigest = "⚠️ 今天沒有抓到任何職缺。"

func escape(s string) string {
	return html.EscapeString(s)
}

// FormatDigest renders the first limit postings in Telegram HTML.
func FormatDigest(keyword string, postings []models.JobPosting, limit int) string {
	if len(postings) == 0 {
		return emptyDigest
	}
	if limit <= 0 || limit > len(postings) {
		limit = len(postings)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 <b>今日%s職缺更新：</b>", escape(keyword))
	for i, p := range postings[:limit] {
		fmt.Fprintf(&sb, "\n\n<b>%d. %s</b>（%s）\n", i+1, escape(p.Title), escape(p.JobFamily))
		fmt.Fprintf(&sb, "📍 %s｜%s\n", escape(p.Organization), escape(orUnknown(p.WorkLocation)))
		fmt.Fprintf(&sb, "💼 %s\n", escape(p.RankRange))
		fmt.Fprintf(&sb, "⏰ %s", escape(orUnknown(p.ValidityPeriod)))
		if p.Remarks != "" {
			fmt.Fprintf(&sb, "\n📝 %s", escape(p.Remarks))
		}
	}
	if rest := len(postings) - limit; rest > 0 {
		fmt.Fprintf(&sb, "\n\n…另有 %d 筆", rest)
	}
	return sb.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "未知"
	}
	return s
}
