package confirm_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/servermanage/internal/confirm"
)

// replyFunc adapts a function to confirm.Prompter.
type replyFunc func(ctx context.Context, text string) error

func (f replyFunc) Reply(ctx context.Context, text string) error { return f(ctx, text) }

var key = confirm.Key{Platform: "discord", CommunityID: "1", ChannelID: "2", AuthorID: "3"}

// answer returns a prompter that delivers reply as soon as the prompt is sent.
func answer(b *confirm.Broker, k confirm.Key, reply string) confirm.Prompter {
	return replyFunc(func(context.Context, string) error {
		go b.Deliver(k, reply)
		return nil
	})
}

func TestAsk_Replies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		reply   string
		wantErr error
	}{
		{"yes", nil},
		{"YES", nil},
		{"  Yes ", confirm.ErrDeclined},
		{"yes\n", confirm.ErrDeclined},
		{"no", confirm.ErrDeclined},
		{"yes please", confirm.ErrDeclined},
		{"y", confirm.ErrDeclined},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.reply, func(t *testing.T) {
			t.Parallel()
			b := confirm.NewBroker(time.Second, nil)

			err := b.Ask(context.Background(), key, answer(b, key, tt.reply), "sure?")
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.wantErr)
			}
			assert.Zero(t, b.Pending())
		})
	}
}

func TestAsk_Timeout(t *testing.T) {
	t.Parallel()
	b := confirm.NewBroker(20*time.Millisecond, nil)

	var prompts []string
	err := b.Ask(context.Background(), key, replyFunc(func(_ context.Context, text string) error {
		prompts = append(prompts, text)
		return nil
	}), "sure?")

	require.ErrorIs(t, err, confirm.ErrTimeout)
	assert.Equal(t, []string{"sure?"}, prompts)
	assert.False(t, b.Deliver(key, "yes"), "late reply must not be consumed")
}

func TestAsk_IgnoresOtherAuthorsAndChannels(t *testing.T) {
	t.Parallel()
	b := confirm.NewBroker(50*time.Millisecond, nil)

	otherAuthor := key
	otherAuthor.AuthorID = "99"
	otherChannel := key
	otherChannel.ChannelID = "98"

	consumed := make(chan bool, 2)
	err := b.Ask(context.Background(), key, replyFunc(func(context.Context, string) error {
		consumed <- b.Deliver(otherAuthor, "yes")
		consumed <- b.Deliver(otherChannel, "yes")
		return nil
	}), "sure?")

	require.ErrorIs(t, err, confirm.ErrTimeout)
	assert.False(t, <-consumed)
	assert.False(t, <-consumed)
}

func TestAsk_PromptErrorAborts(t *testing.T) {
	t.Parallel()
	b := confirm.NewBroker(time.Second, nil)
	sendErr := errors.New("send failed")

	err := b.Ask(context.Background(), key, replyFunc(func(context.Context, string) error { return sendErr }), "sure?")
	require.ErrorIs(t, err, sendErr)
	assert.Zero(t, b.Pending())
}

func TestAsk_NewerPromptDeclinesOlder(t *testing.T) {
	t.Parallel()
	b := confirm.NewBroker(time.Second, nil)

	firstAsked := make(chan struct{})
	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = b.Ask(context.Background(), key, replyFunc(func(context.Context, string) error {
			close(firstAsked)
			return nil
		}), "first?")
	}()
	<-firstAsked

	err := b.Ask(context.Background(), key, answer(b, key, "yes"), "second?")
	require.NoError(t, err)

	wg.Wait()
	require.ErrorIs(t, firstErr, confirm.ErrDeclined)
}

func TestAsk_ContextCancelled(t *testing.T) {
	t.Parallel()
	b := confirm.NewBroker(time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())

	err := b.Ask(ctx, key, replyFunc(func(context.Context, string) error {
		cancel()
		return nil
	}), "sure?")
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewBroker_DefaultTimeout(t *testing.T) {
	t.Parallel()
	assert.Equal(t, confirm.DefaultTimeout, confirm.NewBroker(0, nil).Timeout())
}
