package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/existflow/qazzerep/internal/api"
	"github.com/existflow/qazzerep/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	delay     time.Duration
	batch     *model.BatchResult
	recalc    *model.Comparison
	err       error
	calls     int
	lastFiles []string
	lastReq   api.RecalcRequest
}

func (f *fakeBackend) CompareBatch(ctx context.Context, files []api.Upload) (*model.BatchResult, error) {
	f.calls++
	for _, u := range files {
		f.lastFiles = append(f.lastFiles, u.Name)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.batch, nil
}

func (f *fakeBackend) Recalculate(ctx context.Context, r api.RecalcRequest) (*model.Comparison, error) {
	f.calls++
	f.lastReq = r
	if f.err != nil {
		return nil, f.err
	}
	return f.recalc, nil
}

func twoUploads() []api.Upload {
	return []api.Upload{
		{Name: "A.pdf", Content: strings.NewReader("a")},
		{Name: "B.pdf", Content: strings.NewReader("b")},
	}
}

func TestCompare_RejectsFewerThanTwoFiles(t *testing.T) {
	b := &fakeBackend{}
	c := NewComparer(b, 0)

	_, err := c.Compare(context.Background(), twoUploads()[:1])
	assert.ErrorIs(t, err, ErrTooFewFiles)
	_, err = c.CompareFiles(context.Background(), nil)
	assert.ErrorIs(t, err, ErrTooFewFiles)
	assert.Equal(t, 0, b.calls, "no request is issued")
}

func TestCompare_WaitsForProcessingFloor(t *testing.T) {
	b := &fakeBackend{batch: &model.BatchResult{Comparisons: []model.Comparison{{ReportID: "abc123", Originality: 42}}}}
	floor := 80 * time.Millisecond
	c := NewComparer(b, floor)

	start := time.Now()
	res, err := c.Compare(context.Background(), twoUploads())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), floor)
	require.Len(t, res, 1)
	assert.Equal(t, "abc123", res[0].ReportID)
}

func TestCompare_SlowBackendIsNotPadded(t *testing.T) {
	b := &fakeBackend{delay: 60 * time.Millisecond, batch: &model.BatchResult{}}
	c := NewComparer(b, 10*time.Millisecond)

	start := time.Now()
	_, err := c.Compare(context.Background(), twoUploads())
	require.NoError(t, err)
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestCompare_FailureSkipsFloor(t *testing.T) {
	boom := errors.New("502")
	b := &fakeBackend{err: boom}
	c := NewComparer(b, 5*time.Second)

	start := time.Now()
	_, err := c.Compare(context.Background(), twoUploads())
	assert.ErrorIs(t, err, boom)
	assert.Less(t, time.Since(start), time.Second)
}

func TestCompare_CancelledContext(t *testing.T) {
	b := &fakeBackend{delay: time.Second, batch: &model.BatchResult{}}
	c := NewComparer(b, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Compare(ctx, twoUploads())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareFiles_OpensPaths(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "A.txt")
	b := filepath.Join(dir, "B.txt")
	require.NoError(t, os.WriteFile(a, []byte("one"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("two"), 0644))

	backend := &fakeBackend{batch: &model.BatchResult{}}
	_, err := NewComparer(backend, 0).CompareFiles(context.Background(), []string{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"A.txt", "B.txt"}, backend.lastFiles)

	_, err = NewComparer(backend, 0).CompareFiles(context.Background(), []string{a, filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestRecalculate_KeepsIdentityAndReplacesScores(t *testing.T) {
	prev := model.Comparison{
		ReportID:    "ABC123",
		Pair:        "A.pdf vs B.pdf",
		Originality: 42,
		DocA:        model.Document{Name: "A.pdf"},
		DocB:        model.Document{Name: "B.pdf"},
	}
	b := &fakeBackend{recalc: &model.Comparison{Originality: 91, Similarity: 9}}
	c := NewComparer(b, 0)

	next, err := c.Recalculate(context.Background(), prev, "edited a", "edited b")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", next.ReportID)
	assert.Equal(t, "A.pdf vs B.pdf", next.Pair)
	assert.Equal(t, 91.0, next.Originality)
	assert.Equal(t, "A.pdf", next.DocA.Name)
	assert.Equal(t, api.RecalcRequest{TextA: "edited a", TextB: "edited b", NameA: "A.pdf", NameB: "B.pdf"}, b.lastReq)
}

func TestRecalculate_EmptyTextRejectedBeforeRequest(t *testing.T) {
	b := &fakeBackend{}
	prev := model.Comparison{ReportID: "X", Originality: 42}

	got, err := NewComparer(b, 0).Recalculate(context.Background(), prev, "  \n", "b")
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Equal(t, prev, got)
	assert.Equal(t, 0, b.calls)
}

func TestRecalculate_FailureKeepsPrevious(t *testing.T) {
	prev := model.Comparison{ReportID: "X", Originality: 42}
	b := &fakeBackend{err: errors.New("500")}

	got, err := NewComparer(b, 0).Recalculate(context.Background(), prev, "a", "b")
	assert.Error(t, err)
	assert.Equal(t, prev, got)
}

func TestPlainText(t *testing.T) {
	html := `<div class="doc"><p>First <span class="diff-match">copied</span> line</p><p>Second<br>line</p><script>x()</script></div>`
	assert.Equal(t, "First copied line\nSecond\nline", PlainText(html))
	assert.Equal(t, "", PlainText("   "))
	assert.Equal(t, "5 < 6 & 7", PlainText("5 &lt; 6 &amp; 7"))
}

func TestEditableTexts(t *testing.T) {
	a, b := EditableTexts(model.Comparison{
		DocA: model.Document{HTML: "<p>alpha</p>"},
		DocB: model.Document{HTML: "beta"},
	})
	assert.Equal(t, "alpha", a)
	assert.Equal(t, "beta", b)
}

func TestShareHelpers(t *testing.T) {
	assert.Equal(t, "https://qazzerep.kz/verify/abc123", VerifyURL("https://qazzerep.kz/", "abc123"))
	assert.Equal(t, "abc123...", ShortID("abc123", 8))
	assert.Equal(t, "ABC123DE...", ShortID("ABC123DEF456", 8))
	assert.Equal(t, "NODE_C0FFEE01", NodeID("65f0aa11c0ffee01"))
	assert.Equal(t, "NODE_AB", NodeID("ab"))
	assert.Equal(t, "42%", FormatPercent(42))
	assert.Equal(t, "87.5%", FormatPercent(87.5))
}

func TestQR(t *testing.T) {
	text, err := QRText("https://qazzerep.kz/verify/abc123")
	require.NoError(t, err)
	assert.NotEmpty(t, text)
	assert.Greater(t, strings.Count(text, "\n"), 10)

	png, err := QRPNG("https://qazzerep.kz/verify/abc123", 128)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))
}

func TestCopyNotice_LastCopyWins(t *testing.T) {
	var n CopyNotice
	assert.False(t, n.Active())

	first := n.Copy()
	second := n.Copy()
	assert.True(t, n.Active())

	assert.False(t, n.Expire(first), "an older timer must not clear a newer copy")
	assert.True(t, n.Active())

	assert.True(t, n.Expire(second))
	assert.False(t, n.Active())
}
