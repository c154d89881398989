package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testCatalog = `category,name,brand,price,stock,description,attributes
Laptops,MacBook Pro,Apple,1999.99,In Stock,"Powerful laptop, for pros","CPU:M3 Pro;RAM:18GB"
Laptops,ThinkPad X1,Lenovo,1499,Out of Stock,Business ultrabook,
Accessories,"Magic Mouse, White",Apple,79.5,in stock,Wireless mouse,Color:White
Monitors,Broken Monitor,Dell,not-a-price,In Stock,Bad row,
Monitors,Short Row,Dell
Phones,Galaxy S24,Samsung,-5,In Stock,Negative price,
Phones,Pixel 9,Google,NaN,In Stock,Not a number,
Tablets,Tab Ultra,Samsung,+Inf,In Stock,Infinite price,
`

func TestLoadCatalog(t *testing.T) {
	store := NewStore()
	err := store.LoadCatalog(strings.NewReader(testCatalog))

	// five bad rows are reported but do not stop loading
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid price")
	assert.Contains(t, err.Error(), `"NaN"`)
	assert.Contains(t, err.Error(), `"+Inf"`)
	assert.Contains(t, err.Error(), "negative price")

	products := store.Products()
	require.Len(t, products, 3)

	assert.Equal(t, "MacBook Pro", products[0].Name)
	assert.Equal(t, "Powerful laptop, for pros", products[0].Description)
	assert.Equal(t, 1999.99, products[0].Price)
	assert.Equal(t, map[string]string{"CPU": "M3 Pro", "RAM": "18GB"}, products[0].Attributes)

	assert.Equal(t, "ThinkPad X1", products[1].Name)
	assert.Empty(t, products[1].Attributes)

	assert.Equal(t, "Magic Mouse, White", products[2].Name)
	assert.Equal(t, "White", products[2].Attributes["Color"])
}

func TestLoadCatalogFileMissing(t *testing.T) {
	store := NewStore()
	err := store.LoadCatalogFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Empty(t, store.Products())
}

func TestParseAttributes(t *testing.T) {
	attrs := parseAttributes(`"Screen: 15 inch; Ports:USB-C:Thunderbolt;junk;Screen:16 inch"`)
	assert.Equal(t, map[string]string{
		"Screen": "16 inch",
		"Ports":  "USB-C:Thunderbolt",
	}, attrs)
}

func TestSmallTalk(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.LoadSmallTalk(strings.NewReader(`
# small talk
who.made.you=A team at Computer X built me.
what.can.you.do = I can answer questions about our products.
price.tag=Costs ${price}
`)))

	reply, ok := store.FindSmallTalk("Who made you")
	require.True(t, ok)
	assert.Equal(t, "A team at Computer X built me.", reply)

	reply, ok = store.FindSmallTalk("  what can you do ")
	require.True(t, ok)
	assert.Equal(t, "I can answer questions about our products.", reply)

	reply, ok = store.FindSmallTalk("price tag")
	require.True(t, ok)
	assert.Equal(t, "Costs ${price}", reply)

	_, ok = store.FindSmallTalk("unknown phrase")
	assert.False(t, ok)
}

func TestLoadLearnedLastLineWins(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.LoadLearned(strings.NewReader(
		"what is your warranty:::One year.\n"+
			"no delimiter here\n"+
			"  Opening Hours ::: 9 to 5 \n"+
			"what is your warranty:::Two years.\n",
	)))

	answer, ok := store.FindLearned("what is your warranty")
	require.True(t, ok)
	assert.Equal(t, "Two years.", answer)

	answer, ok = store.FindLearned("opening hours")
	require.True(t, ok)
	assert.Equal(t, "9 to 5", answer)

	assert.Equal(t, 2, store.Stats().Learned)
}

func TestRecordLearnedPersistsAndReplays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "learned.txt")

	store := NewStore(WithLearnedLog(path))
	require.NoError(t, store.RecordLearned("  Do You Ship Abroad ", "Yes, worldwide."))
	require.NoError(t, store.RecordLearned("do you ship abroad", "Only within the EU."))

	answer, ok := store.FindLearned("do you ship abroad")
	require.True(t, ok)
	assert.Equal(t, "Only within the EU.", answer)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "do you ship abroad:::Yes, worldwide.\ndo you ship abroad:::Only within the EU.\n", string(data))

	reloaded := NewStore()
	require.NoError(t, reloaded.LoadLearnedFile(path, ""))
	answer, ok = reloaded.FindLearned("do you ship abroad")
	require.True(t, ok)
	assert.Equal(t, "Only within the EU.", answer)
}

func TestRecordLearnedCustomDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learned.txt")
	store := NewStore(WithLearnedLog(path), WithDelimiter("|=>|"))
	require.NoError(t, store.RecordLearned("q", "multi\nline"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "q|=>|multi line\n", string(data))

	answer, _ := store.FindLearned("q")
	assert.Equal(t, "multi\nline", answer, "memory keeps the answer verbatim")
}

func TestRecordLearnedPersistenceFailureKeepsMemory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// the parent "directory" is a regular file, so the append must fail
	store := NewStore(WithLearnedLog(filepath.Join(blocker, "learned.txt")))
	err := store.RecordLearned("favourite colour", "Blue.")
	require.Error(t, err)

	answer, ok := store.FindLearned("favourite colour")
	require.True(t, ok)
	assert.Equal(t, "Blue.", answer)
}

func TestRecordLearnedBlankQuestion(t *testing.T) {
	store := NewStore()
	assert.ErrorIs(t, store.RecordLearned("   ", "answer"), ErrBlankQuestion)
}

func TestRecordLearnedMultilineQuestionSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learned.txt")

	store := NewStore(WithLearnedLog(path))
	require.NoError(t, store.RecordLearned("What is\r\nyour policy", "thirty days"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "what is your policy:::thirty days\n", string(data))

	reloaded := NewStore()
	require.NoError(t, reloaded.LoadLearnedFile(path, ""))
	for _, question := range []string{"what is\nyour policy", "what is your policy"} {
		answer, ok := reloaded.FindLearned(question)
		require.True(t, ok, question)
		assert.Equal(t, "thirty days", answer)
	}
	_, ok := reloaded.FindLearned("your policy")
	assert.False(t, ok)
}

func TestRecordLearnedRejectsDelimiterInQuestion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learned.txt")

	store := NewStore(WithLearnedLog(path))
	err := store.RecordLearned("a:::b", "answer")
	assert.ErrorIs(t, err, ErrDelimiterInQuestion)

	_, ok := store.FindLearned("a:::b")
	assert.False(t, ok)
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	// an answer may carry the delimiter; only the first one splits the line
	require.NoError(t, store.RecordLearned("ratio", "1:::2"))
	reloaded := NewStore()
	require.NoError(t, reloaded.LoadLearnedFile(path, ""))
	answer, ok := reloaded.FindLearned("ratio")
	require.True(t, ok)
	assert.Equal(t, "1:::2", answer)
}

func TestLoadLearnedFileFallsBackToSeed(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "seed.txt")
	require.NoError(t, os.WriteFile(seed, []byte("hello bot:::Hello human.\n"), 0o644))

	store := NewStore()
	require.NoError(t, store.LoadLearnedFile(filepath.Join(dir, "missing.txt"), seed))

	answer, ok := store.FindLearned("hello bot")
	require.True(t, ok)
	assert.Equal(t, "Hello human.", answer)

	empty := NewStore()
	require.NoError(t, empty.LoadLearnedFile(filepath.Join(dir, "missing.txt"), ""))
	assert.Zero(t, empty.Stats().Learned)
}

func TestLoadAllToleratesMissingSources(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	catalog := filepath.Join(dir, "products.csv")
	require.NoError(t, os.WriteFile(catalog, []byte(testCatalog), 0o644))

	store := NewStore()
	stats := store.LoadAll(context.Background(), Paths{
		Catalog:   catalog,
		SmallTalk: filepath.Join(dir, "missing.properties"),
		Learned:   filepath.Join(dir, "learned.txt"),
	})

	assert.Equal(t, Stats{Products: 3}, stats)

	// LoadAll wires the learned log when none was configured
	require.NoError(t, store.RecordLearned("q", "a"))
	_, err := os.Stat(filepath.Join(dir, "learned.txt"))
	assert.NoError(t, err)
}

func TestConcurrentLearnAndLookup(t *testing.T) {
	store := NewStore(WithLearnedLog(filepath.Join(t.TempDir(), "learned.txt")))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.RecordLearned("shared question", "answer")
		}()
		go func() {
			defer wg.Done()
			store.FindLearned("shared question")
		}()
	}
	wg.Wait()

	answer, ok := store.FindLearned("shared question")
	require.True(t, ok)
	assert.Equal(t, "answer", answer)
}
