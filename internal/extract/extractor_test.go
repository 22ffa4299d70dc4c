package extract

import (
	"strings"
	"testing"

	"go-dgpa-watcher/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const headerRow = `<tr><th>序號</th><th>職稱</th><th>機關名稱</th><th>職系</th><th>工作地點</th><th>職務列等</th><th>有效期間</th><th>備註</th></tr>`

func resultsPage(rows ...string) string {
	return `<html><head><script>var x = "職稱";</script></head><body>
<table id="search"><tr><td>查詢條件</td><td><input name="kw"></td></tr></table>
<table id="results">` + headerRow + strings.Join(rows, "\n") + `</table>
</body></html>`
}

const (
	rowFull = `<tr><td>1</td><td>王大明書記官</td><td>臺北市政府</td><td>[統計],</td><td>100-台北市</td><td>委任第三職等至薦任第六職等</td><td>有效期間:113/01/01~113/12/31</td><td>備註無</td></tr>`
	rowNoValidity = `<tr><td>2</td><td>李四科員</td><td>某市政府主計處</td><td>[統計],</td><td>200-新竹市</td><td>委任第五職等</td><td></td><td>備註</td></tr>`
	rowGarbage    = `<tr><td>3</td><td>無效資料列</td></tr>`
	rowSecond     = `<tr><td>4</td><td>王小華分析師</td><td>某署統計處</td><td>[統計],</td><td>300-新竹市</td><td>薦任第六職等或薦任第七職等</td><td>有效期間:113/02/01~113/02/28</td><td></td></tr>`
	rowFooter     = `<tr><td colspan="8">共12筆</td></tr>`
)

func mustExtract(t *testing.T, e *Extractor, markup string) Result {
	t.Helper()
	res, err := e.Extract(markup, "統計")
	require.NoError(t, err)
	return res
}

func TestExtract_FullRow(t *testing.T) {
	res := mustExtract(t, New(), resultsPage(rowFull))

	require.Len(t, res.Postings, 1)
	assert.Empty(t, res.Unparsed)
	assert.Equal(t, models.JobPosting{
		Row:            0,
		Title:          "王大明書記官",
		Organization:   "臺北市政府",
		JobFamily:      "統計",
		RankRange:      "委任第三職等至薦任第六職等",
		WorkLocation:   "100-台北市",
		ValidityPeriod: "113/01/01~113/12/31",
		Remarks:        "無",
	}, res.Postings[0])
}

func TestExtract_FooterRowDropped(t *testing.T) {
	res := mustExtract(t, New(), resultsPage(rowFull, rowFooter))

	assert.Equal(t, 1, res.Rows)
	assert.Len(t, res.Postings, 1)
	assert.Empty(t, res.Unparsed)
}

func TestExtract_FallbackRecord(t *testing.T) {
	res := mustExtract(t, New(), resultsPage(rowNoValidity))

	require.Len(t, res.Postings, 1)
	p := res.Postings[0]
	assert.True(t, p.Partial)
	assert.Equal(t, "未解析", p.RankRange)
	assert.Equal(t, "", p.ValidityPeriod)
	assert.Equal(t, "200-新竹市", p.WorkLocation)
	assert.Equal(t, "統計", p.JobFamily)
	assert.Equal(t, "李四科員", p.Title)
	assert.Equal(t, "某市政府主計處", p.Organization)
}

func TestExtract_FallbackDisabled(t *testing.T) {
	res := mustExtract(t, New(WithFallback(false)), resultsPage(rowNoValidity))

	assert.Empty(t, res.Postings)
	require.Len(t, res.Unparsed, 1)
	assert.Equal(t, models.ReasonFallbackDisabled, res.Unparsed[0].Reason)
}

func TestExtract_UnparsedWithoutFamilyMarker(t *testing.T) {
	res := mustExtract(t, New(), resultsPage(rowFull, rowGarbage))

	assert.Len(t, res.Postings, 1)
	require.Len(t, res.Unparsed, 1)
	assert.Equal(t, models.UnparsedLine{Row: 1, Text: "3無效資料列", Reason: models.ReasonNoMatch}, res.Unparsed[0])
}

func TestExtract_EmptyTable(t *testing.T) {
	res := mustExtract(t, New(), `<html><body><table></table></body></html>`)

	assert.True(t, res.TableFound)
	assert.Equal(t, 0, res.Rows)
	assert.NotNil(t, res.Postings)
	assert.Empty(t, res.Postings)
	assert.Empty(t, res.Unparsed)
}

func TestExtract_NoTable(t *testing.T) {
	res := mustExtract(t, New(), `<html><body><p>系統維護中</p></body></html>`)

	assert.False(t, res.TableFound)
	assert.Empty(t, res.Postings)
	assert.Empty(t, res.Unparsed)
}

func TestExtract_MalformedInput(t *testing.T) {
	_, err := New().Extract("<table>\xff\xfe</table>", "")
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestExtract_FullWidthCells(t *testing.T) {
	row := `<tr><td>１</td><td>王大明書記官</td><td>臺北市政府</td><td>［統計］，</td><td>100-台北市</td><td>委任第三職等</td><td>有效期間：１１３／０１／０１～１１３／１２／３１</td><td></td></tr>`
	res := mustExtract(t, New(), resultsPage(row))

	require.Len(t, res.Postings, 1)
	assert.False(t, res.Postings[0].Partial)
	assert.Equal(t, "統計", res.Postings[0].JobFamily)
	assert.Equal(t, "113/01/01~113/12/31", res.Postings[0].ValidityPeriod)
}

func TestExtract_CellTextNodesJoinedWithoutSeparator(t *testing.T) {
	row := `<tr><td>1</td><td>王大明<br>
	書記官</td><td><span>臺北市</span> <span>政府</span></td><td>[統計],</td><td>100-台北市</td><td>委任第三職等</td><td>有效期間:113/01/01~113/12/31</td><td></td></tr>`
	res := mustExtract(t, New(), resultsPage(row))

	require.Len(t, res.Postings, 1)
	assert.Equal(t, "王大明書記官", res.Postings[0].Title)
	assert.Equal(t, "臺北市政府", res.Postings[0].Organization)
}

func TestExtract_OrderAndCounts(t *testing.T) {
	res := mustExtract(t, New(), resultsPage(rowFull, rowGarbage, rowNoValidity, rowSecond, rowFooter))

	assert.Equal(t, 4, res.Rows)
	assert.Equal(t, res.Rows, len(res.Postings)+len(res.Unparsed))

	var titles []string
	for i, p := range res.Postings {
		titles = append(titles, p.Title)
		if i > 0 {
			assert.Greater(t, p.Row, res.Postings[i-1].Row)
		}
	}
	assert.Equal(t, []string{"王大明書記官", "李四科員", "王小華分析師"}, titles)
	assert.Equal(t, "薦任第六職等或薦任第七職等", res.Postings[2].RankRange)
}

func TestExtract_HeaderRowNeverReachesMatcher(t *testing.T) {
	res := mustExtract(t, New(WithFallback(false)), resultsPage(rowGarbage))

	for _, u := range res.Unparsed {
		assert.NotContains(t, u.Text, "職稱")
		assert.NotContains(t, u.Text, "序號")
	}
	assert.Equal(t, 1, res.Rows)
}

func TestExtract_HeaderMarkerOutsideFirstRowIsKept(t *testing.T) {
	row := `<tr><td>5</td><td>職稱待定</td></tr>`
	res := mustExtract(t, New(), resultsPage(rowFull, row))

	assert.Equal(t, 2, res.Rows)
	assert.Len(t, res.Postings, 1)
	require.Len(t, res.Unparsed, 1)
	assert.Equal(t, models.UnparsedLine{Row: 1, Text: "5職稱待定", Reason: models.ReasonNoMatch}, res.Unparsed[0])
}

func TestExtract_Idempotent(t *testing.T) {
	e := New()
	page := resultsPage(rowFull, rowGarbage, rowNoValidity, rowSecond, rowFooter)

	first := mustExtract(t, e, page)
	second := mustExtract(t, e, page)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestExtract_CustomVocabulary(t *testing.T) {
	v := DefaultVocabulary()
	v.TitleKeywords = []string{"書記"}
	e := New(WithVocabulary(v))
	// the extractor keeps its own copy
	v.TitleKeywords[0] = "不存在"

	res := mustExtract(t, e, resultsPage(rowFull))
	require.Len(t, res.Postings, 1)
	assert.Equal(t, "王大明書記", res.Postings[0].Title)
	assert.Equal(t, "官臺北市政府", res.Postings[0].Organization)
}

func TestLocateTable(t *testing.T) {
	markers := []string{"職稱", "機關名稱", "統計"}

	tests := []struct {
		name   string
		markup string
		wantID string
	}{
		{
			name:   "first table with a marker",
			markup: `<table id="a"><tr><td>一些很長很長很長很長的文字內容</td></tr></table><table id="b"><tr><td>機關名稱</td></tr></table><table id="c"><tr><td>職稱</td></tr></table>`,
			wantID: "b",
		},
		{
			name:   "largest table when no marker matches",
			markup: `<table id="a"><tr><td>短</td></tr></table><table id="b"><tr><td>比較長的表格內容</td></tr></table><table id="c"><tr><td>中等長度</td></tr></table>`,
			wantID: "b",
		},
		{
			name:   "nested results table beats its layout table",
			markup: `<table id="layout"><tr><td><table id="inner"><tr><td>職稱</td></tr></table></td></tr></table>`,
			wantID: "inner",
		},
		{
			name:   "script text is not visible",
			markup: `<table id="a"><tr><td><script>var t = "職稱";</script>短</td></tr></table><table id="b"><tr><td>統計</td></tr></table>`,
			wantID: "b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.markup))
			require.NoError(t, err)

			table, ok := LocateTable(doc, markers)
			require.True(t, ok)
			id, _ := table.Attr("id")
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestNormalizeRows_SkipsNestedRows(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table id="outer"><tr><td>甲</td><td><table><tr><td>乙</td></tr></table></td></tr><tr><td>丙</td></tr></table>`))
	require.NoError(t, err)

	rows := NormalizeRows(doc.Find("#outer"), DefaultVocabulary().HeaderMarkers, totalCountPattern(DefaultVocabulary()))
	assert.Equal(t, []string{"甲乙", "丙"}, rows)
}
