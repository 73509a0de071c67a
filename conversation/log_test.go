package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/dialogform/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_AppendOrderAndIDs(t *testing.T) {
	log := NewLog()
	log.Say(core.RoleUser, "hello")
	log.Append(core.Message{Role: core.RoleAssistant, Text: "hi"})

	msgs := log.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Text)
	assert.Equal(t, "hi", msgs[1].Text)
	assert.NotEmpty(t, msgs[0].ID)
	assert.NotEmpty(t, msgs[1].ID, "appended messages without IDs get one assigned")
	assert.Equal(t, 2, log.Len())
}

func TestLog_MessagesReturnsCopy(t *testing.T) {
	log := NewLog()
	log.Say(core.RoleUser, "original")

	msgs := log.Messages()
	msgs[0].Text = "tampered"

	assert.Equal(t, "original", log.Messages()[0].Text)
}

func TestLog_Tail(t *testing.T) {
	log := NewLog()
	for i := 0; i < 5; i++ {
		log.Say(core.RoleUser, fmt.Sprintf("m%d", i))
	}

	tail := log.Tail(2)
	require.Len(t, tail, 2)
	assert.Equal(t, "m3", tail[0].Text)
	assert.Equal(t, "m4", tail[1].Text)

	assert.Len(t, log.Tail(10), 5)
	assert.Empty(t, log.Tail(0))
}

func TestLog_AppendAllPreservesOrder(t *testing.T) {
	log := NewLog()
	log.AppendAll(
		core.NewUserMessage("one"),
		core.NewAssistantMessage("two"),
	)

	msgs := log.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Text)
	assert.Equal(t, "two", msgs[1].Text)
}

func TestLog_ConcurrentAppends(t *testing.T) {
	log := NewLog()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Say(core.RoleUser, "msg")
			_ = log.Messages()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, log.Len())
}
