package nodes

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"computerx_chatbot/internal/core"
	"computerx_chatbot/internal/knowledge"
	"computerx_chatbot/internal/services"
	"computerx_chatbot/internal/textutil"
	"computerx_chatbot/pkg"
)

const testCatalog = `category,name,brand,price,stock,description,attributes
Laptops,UltraBook Pro 14,Zenith,1299.99,In Stock,Thin and light laptop,RAM:16GB
Laptops,GamerX 17,Titan,1899.5,Out of Stock,Gaming laptop,GPU:RTX 4070
Monitors,ViewMax 27,Zenith,329,in stock,27 inch 4K display,
Accessories,WidgetX,Acme,19.999,In Stock,A handy widget,Color:Blue
`

type fixedPicker int

func (p fixedPicker) IntN(n int) int { return int(p) % n }

func clockAt(hour int) Clock {
	return func() time.Time {
		return time.Date(2024, time.March, 4, hour, 30, 0, 0, time.Local)
	}
}

func newTestStore(t *testing.T) *knowledge.Store {
	t.Helper()
	store := knowledge.NewStore()
	require.NoError(t, store.LoadCatalog(strings.NewReader(testCatalog)))
	require.NoError(t, store.LoadSmallTalk(strings.NewReader("what.is.up=Not much, just selling computers.\n")))
	require.NoError(t, store.LoadLearned(strings.NewReader("who made you:::A team of engineers.\n")))
	return store
}

func newTestRouter(t *testing.T, hour int) *core.Router {
	t.Helper()
	store := newTestStore(t)
	router, err := NewDefaultRouter(Dependencies{
		Persona:   Persona{Name: "Nayana", Company: "Computer X"},
		Catalog:   services.NewProductService(store),
		Knowledge: store,
		Clock:     clockAt(hour),
		Picker:    fixedPicker(1),
	})
	require.NoError(t, err)
	return router
}

func route(router *core.Router, text string, session *pkg.SessionState) (pkg.Response, string) {
	if session == nil {
		session = &pkg.SessionState{}
	}
	input := core.RuleInput{Raw: text, Normalized: textutil.Normalize(text), Session: session}
	return router.Route(context.Background(), input)
}

func TestDefaultRulesOrder(t *testing.T) {
	router := newTestRouter(t, 9)
	assert.Equal(t, []string{
		"time_greeting", "identity", "fixed_phrase", "catalog_meta", "knowledge",
		"listing", "price", "stock", "availability", "fallback",
	}, router.Rules())
}

func TestTimeOfDay(t *testing.T) {
	cases := map[int]string{
		0: "night", 4: "night", 5: "morning", 11: "morning", 12: "afternoon",
		16: "afternoon", 17: "evening", 21: "evening", 22: "night", 23: "night",
	}
	for hour, want := range cases {
		assert.Equal(t, want, TimeOfDay(hour), "hour %d", hour)
	}
}

func TestTimeGreeting(t *testing.T) {
	router := newTestRouter(t, 9)

	resp, name := route(router, "Good morning!", nil)
	assert.Equal(t, "time_greeting", name)
	assert.Equal(t, "Good morning to you too!", resp.Message)
	assert.True(t, resp.Personalizable)

	resp, _ = route(router, "good evening", nil)
	assert.Equal(t, "Actually, it's morning here, but good evening to you anyway!", resp.Message)

	// runs before every other rule
	_, name = route(router, "good night, show me laptops", nil)
	assert.Equal(t, "time_greeting", name)
}

func TestIdentity(t *testing.T) {
	router := newTestRouter(t, 9)

	session := &pkg.SessionState{}
	resp, name := route(router, "Who are you?", session)
	assert.Equal(t, "identity", name)
	assert.Equal(t, "I am Nayana, a virtual assistant for Computer X. What's your name?", resp.Message)
	assert.True(t, session.AwaitingUserName)
	assert.False(t, resp.Personalizable)

	known := &pkg.SessionState{UserName: "Ana"}
	resp, _ = route(router, "what is your name", known)
	assert.Equal(t, "My name is Nayana. It's nice chatting with you, Ana!", resp.Message)
	assert.False(t, known.AwaitingUserName)
}

func TestFixedPhrases(t *testing.T) {
	router := newTestRouter(t, 9)

	resp, name := route(router, "Hello", nil)
	assert.Equal(t, "fixed_phrase", name)
	assert.Equal(t, GreetingReplies[1], resp.Message)
	assert.True(t, resp.Personalizable)
	assert.False(t, resp.EndConversation)

	resp, _ = route(router, "thank you", nil)
	assert.Equal(t, ThanksReplies[1], resp.Message)

	resp, _ = route(router, "  BYE ", nil)
	assert.Equal(t, FarewellReplies[1], resp.Message)
	assert.True(t, resp.EndConversation)

	resp, _ = route(router, "hey, how are you doing?", nil)
	assert.Equal(t, StatusReplies[1], resp.Message)

	// exact equality only
	_, name = route(router, "hi there", nil)
	assert.Equal(t, "fallback", name)
}

func TestCatalogMeta(t *testing.T) {
	router := newTestRouter(t, 9)

	resp, name := route(router, "What categories are available?", nil)
	assert.Equal(t, "catalog_meta", name)
	assert.Equal(t, "We have the following product categories: Accessories, Laptops, Monitors.", resp.Message)

	resp, _ = route(router, "list your product names", nil)
	assert.Equal(t, "Here are all the product names we have: UltraBook Pro 14, GamerX 17, ViewMax 27, WidgetX.", resp.Message)
}

func TestKnowledgeLookup(t *testing.T) {
	router := newTestRouter(t, 9)

	resp, name := route(router, "What is up", nil)
	assert.Equal(t, "knowledge", name)
	assert.Equal(t, "Not much, just selling computers.", resp.Message)

	resp, name = route(router, "Who made you", nil)
	assert.Equal(t, "knowledge", name)
	assert.Equal(t, "A team of engineers.", resp.Message)
	assert.False(t, resp.Personalizable)
}

func TestListing(t *testing.T) {
	router := newTestRouter(t, 9)

	resp, name := route(router, "show me laptops", nil)
	assert.Equal(t, "listing", name)
	assert.True(t, strings.HasPrefix(resp.Message, "Here's what I found for 'laptops':\n"))
	assert.Contains(t, resp.Message, "Name: UltraBook Pro 14 (Zenith)")
	assert.Contains(t, resp.Message, "Name: GamerX 17 (Titan)")
	assert.Contains(t, resp.Message, listingSeparator)
	assert.NotContains(t, resp.Message, "ViewMax")

	resp, _ = route(router, "show me everything", nil)
	assert.True(t, strings.HasPrefix(resp.Message, "Here are all the products we have:\n"))
	assert.Equal(t, 3, strings.Count(resp.Message, listingSeparator))

	resp, _ = route(router, "show me", nil)
	assert.Equal(t, clarifyListing, resp.Message)

	resp, _ = route(router, "show me toasters?", nil)
	assert.Equal(t, "Sorry, I couldn't find any products matching 'toasters'.", resp.Message)
}

func TestPrice(t *testing.T) {
	router := newTestRouter(t, 9)

	resp, name := route(router, "What is the price of WidgetX?", nil)
	assert.Equal(t, "price", name)
	assert.Equal(t, "The price of the WidgetX is $20.00.", resp.Message)

	resp, _ = route(router, "price of laptop", nil)
	assert.Equal(t, "I found multiple products matching 'laptop': UltraBook Pro 14, GamerX 17... Can you be more specific?", resp.Message)

	resp, _ = route(router, "price of toaster", nil)
	assert.Equal(t, "Sorry, I couldn't find a product named 'toaster'.", resp.Message)
}

func TestStock(t *testing.T) {
	router := newTestRouter(t, 9)

	resp, name := route(router, "Is GamerX 17 in stock?", nil)
	assert.Equal(t, "stock", name)
	assert.Equal(t, "The GamerX 17 is currently out of stock.", resp.Message)

	resp, _ = route(router, "is viewmax 27 available", nil)
	assert.Equal(t, "The ViewMax 27 is in stock.", resp.Message)

	resp, _ = route(router, "are laptops in stock", nil)
	assert.Contains(t, resp.Message, "I found multiple products matching 'laptops'")
}

func TestAvailability(t *testing.T) {
	router := newTestRouter(t, 9)

	resp, name := route(router, "do you have monitors?", nil)
	assert.Equal(t, "availability", name)
	assert.True(t, strings.HasPrefix(resp.Message, "Here's what I found for 'monitors':\n"))
	assert.Contains(t, resp.Message, "ViewMax 27")

	resp, _ = route(router, "any toasters", nil)
	assert.Equal(t, "Sorry, I couldn't find any products matching 'toasters'.", resp.Message)
}

func TestFallback(t *testing.T) {
	router := newTestRouter(t, 9)

	resp, name := route(router, "what is the meaning of life", nil)
	assert.Equal(t, "fallback", name)
	assert.Equal(t, FallbackMessage, resp.Message)
	assert.Equal(t, pkg.MoodLearning, resp.Mood)
	assert.False(t, resp.Personalizable)
}

func TestPick(t *testing.T) {
	assert.Equal(t, "b", Pick(fixedPicker(1), "a", "b", "c"))
	assert.Equal(t, "", Pick(fixedPicker(0)))

	reply := Pick(DefaultPicker(), GreetingReplies...)
	assert.Contains(t, GreetingReplies, reply)
}
