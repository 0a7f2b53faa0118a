package analyze

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultOptions() Options {
	return Options{
		HistogramBins:     20,
		ShowKDE:           true,
		MaxDefaultColumns: 5,
		ShowCorrelation:   true,
		PreviewRows:       5,
	}
}

func runPipeline(t *testing.T, req Request) *Response {
	t.Helper()
	resp, err := NewPipeline(nil).Run(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func TestRun_NoFiles(t *testing.T) {
	_, err := NewPipeline(nil).Run(context.Background(), Request{Options: defaultOptions()})
	require.Error(t, err)
}

func TestRun_SingleFileFullAnalysis(t *testing.T) {
	csv := "a,b,label\n1,2,x\n2,4,y\n3,6,z\n4,8,w\n5,10,v\n"
	resp := runPipeline(t, Request{
		Files:   []FileInput{{Filename: "linear.csv", Content: []byte(csv)}},
		Options: defaultOptions(),
	})

	require.Len(t, resp.Results, 1)
	result := resp.Results[0]

	assert.Equal(t, "0:linear.csv", result.FileID)
	assert.Equal(t, "utf-8", result.Encoding)
	assert.Nil(t, result.Notice)

	require.NotNil(t, result.Preview)
	assert.Equal(t, 5, result.Preview.RowCount)
	assert.Equal(t, 3, result.Preview.ColumnCount)

	assert.Equal(t, []string{"a", "b"}, result.NumericColumns)
	assert.Equal(t, []string{"a", "b"}, result.Selected)

	require.Len(t, result.Columns, 2)
	assert.Equal(t, "a", result.Columns[0].Column)
	assert.Equal(t, 5, result.Columns[0].Statistics.Count)
	assert.InDelta(t, 3.0, result.Columns[0].Statistics.Mean, 1e-9)
	require.NotNil(t, result.Columns[0].Histogram)
	assert.NotEmpty(t, result.Columns[0].Histogram.KDE)

	require.NotNil(t, result.Heatmap)
	assert.Equal(t, []string{"a", "b"}, result.Heatmap.Labels)
	assert.InDelta(t, 1.0, float64(result.Heatmap.Values[0][1]), 1e-9)
	assert.Equal(t, "1.00", result.Heatmap.Annotations[0][1])

	assert.Contains(t, result.Report, "linear.csv")
	assert.Contains(t, result.Report, "| a |")
}

func TestRun_PerFileErrorIsolation(t *testing.T) {
	good := "v\n1\n2\n3\n"
	resp := runPipeline(t, Request{
		Files: []FileInput{
			{Filename: "broken.xlsx", Content: []byte("not a real workbook")},
			{Filename: "fine.csv", Content: []byte(good)},
		},
		Options: defaultOptions(),
	})

	require.Len(t, resp.Results, 2)

	// Results stay in upload order; the broken file fails alone.
	broken := resp.Results[0]
	assert.True(t, broken.Failed())
	require.NotNil(t, broken.Notice)
	assert.Equal(t, NoticeDecodeError, broken.Notice.Kind)
	assert.Contains(t, broken.Report, "broken.xlsx")

	fine := resp.Results[1]
	assert.False(t, fine.Failed())
	assert.Nil(t, fine.Notice)
	require.Len(t, fine.Columns, 1)
	assert.Equal(t, 3, fine.Columns[0].Statistics.Count)
}

func TestRun_NoNumericData(t *testing.T) {
	csv := "name,color\nalice,red\nbob,blue\n"
	resp := runPipeline(t, Request{
		Files:   []FileInput{{Filename: "words.csv", Content: []byte(csv)}},
		Options: defaultOptions(),
	})

	result := resp.Results[0]
	require.NotNil(t, result.Notice)
	assert.Equal(t, NoticeNoNumericData, result.Notice.Kind)
	assert.Empty(t, result.Columns)
	assert.Nil(t, result.Heatmap)

	// The file still gets its preview and profile.
	require.NotNil(t, result.Preview)
	assert.Equal(t, 2, result.Preview.RowCount)
	assert.NotEmpty(t, result.Fields)
}

func TestRun_ExplicitEmptySelection(t *testing.T) {
	csv := "a,b\n1,2\n3,4\n"
	resp := runPipeline(t, Request{
		Files:      []FileInput{{Filename: "data.csv", Content: []byte(csv)}},
		Options:    defaultOptions(),
		Selections: map[string][]string{"0:data.csv": {}},
	})

	result := resp.Results[0]
	require.NotNil(t, result.Notice)
	assert.Equal(t, NoticeEmptySelection, result.Notice.Kind)
	assert.Empty(t, result.Columns)
	assert.Nil(t, result.Heatmap)
}

func TestRun_ExplicitSelectionFilteredAndOrdered(t *testing.T) {
	csv := "a,b,c\n1,2,3\n4,5,6\n"
	resp := runPipeline(t, Request{
		Files:      []FileInput{{Filename: "data.csv", Content: []byte(csv)}},
		Options:    defaultOptions(),
		Selections: map[string][]string{"0:data.csv": {"c", "nope", "a"}},
	})

	result := resp.Results[0]
	assert.Nil(t, result.Notice)
	// Selection order wins; unknown names are dropped silently.
	assert.Equal(t, []string{"c", "a"}, result.Selected)
	require.Len(t, result.Columns, 2)
	assert.Equal(t, "c", result.Columns[0].Column)
	assert.Equal(t, "a", result.Columns[1].Column)
}

func TestRun_DefaultSelectionLimited(t *testing.T) {
	header := "c1,c2,c3,c4"
	rows := "1,2,3,4\n5,6,7,8\n"
	opts := defaultOptions()
	opts.MaxDefaultColumns = 2

	resp := runPipeline(t, Request{
		Files:   []FileInput{{Filename: "wide.csv", Content: []byte(header + "\n" + rows)}},
		Options: opts,
	})

	result := resp.Results[0]
	assert.Equal(t, []string{"c1", "c2"}, result.Selected)
	assert.Len(t, result.Columns, 2)

	// Correlation still spans the full numeric set, not just the selection.
	require.NotNil(t, result.Heatmap)
	assert.Len(t, result.Heatmap.Labels, 4)
}

func TestRun_CorrelationNeedsTwoNumericColumns(t *testing.T) {
	csv := "v,label\n1,x\n2,y\n3,z\n"
	resp := runPipeline(t, Request{
		Files:   []FileInput{{Filename: "single.csv", Content: []byte(csv)}},
		Options: defaultOptions(),
	})

	result := resp.Results[0]
	assert.Nil(t, result.Notice)
	assert.Len(t, result.Columns, 1)
	assert.Nil(t, result.Heatmap, "one numeric column cannot be correlated")
	assert.NotContains(t, result.Report, "Correlation")
}

func TestRun_CorrelationDisabled(t *testing.T) {
	csv := "a,b\n1,2\n2,4\n3,6\n"
	opts := defaultOptions()
	opts.ShowCorrelation = false

	resp := runPipeline(t, Request{
		Files:   []FileInput{{Filename: "data.csv", Content: []byte(csv)}},
		Options: opts,
	})

	assert.Nil(t, resp.Results[0].Heatmap)
}

func TestRun_UploadOrderPreserved(t *testing.T) {
	files := make([]FileInput, 6)
	for i := range files {
		files[i] = FileInput{
			Filename: "f" + strings.Repeat("x", i) + ".csv",
			Content:  []byte("v\n1\n2\n"),
		}
	}
	resp := runPipeline(t, Request{Files: files, Options: defaultOptions()})

	require.Len(t, resp.Results, len(files))
	for i, result := range resp.Results {
		assert.Equal(t, i, result.Index)
		assert.Equal(t, files[i].Filename, result.Filename)
	}
}

func TestRun_InfinityCellsSurvive(t *testing.T) {
	// "inf" parses as a float, so the column counts as numeric; the
	// non-finite rows must drop out instead of breaking the histogram.
	csv := "v,w\n1,2\n2,4\ninf,6\n3,-inf\n"
	resp := runPipeline(t, Request{
		Files:   []FileInput{{Filename: "inf.csv", Content: []byte(csv)}},
		Options: defaultOptions(),
	})

	result := resp.Results[0]
	assert.Nil(t, result.Notice)
	assert.Equal(t, []string{"v", "w"}, result.NumericColumns)

	require.Len(t, result.Columns, 2)
	assert.Equal(t, 3, result.Columns[0].Statistics.Count)
	assert.Equal(t, 3, result.Columns[1].Statistics.Count)
	require.NotNil(t, result.Columns[0].Histogram)
	assert.Equal(t, 3, result.Columns[0].Histogram.Total())

	// The whole result must still encode as JSON.
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Inf")
}

func TestRun_TinyColumnEncodesAsJSON(t *testing.T) {
	csv := "v\n1\n2\n3\n"
	resp := runPipeline(t, Request{
		Files:   []FileInput{{Filename: "tiny.csv", Content: []byte(csv)}},
		Options: defaultOptions(),
	})

	result := resp.Results[0]
	require.Len(t, result.Columns, 1)
	s := result.Columns[0].Statistics
	assert.InDelta(t, 1.5, s.Q25, 1e-9)
	assert.InDelta(t, 2.5, s.Q75, 1e-9)

	_, err := json.Marshal(resp)
	require.NoError(t, err, "quartiles of short columns must stay encodable")
}

func TestRun_ShiftJISFileAnalyzed(t *testing.T) {
	raw := append([]byte{0x92, 0x6c}, []byte("\n1\n2\n3\n")...) // header 値
	resp := runPipeline(t, Request{
		Files:   []FileInput{{Filename: "sjis.csv", Content: raw}},
		Options: defaultOptions(),
	})

	result := resp.Results[0]
	assert.Nil(t, result.Notice)
	assert.Equal(t, "shift_jis", result.Encoding)
	assert.Equal(t, []string{"値"}, result.NumericColumns)
}
