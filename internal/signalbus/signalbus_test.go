package signalbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndRecv(t *testing.T) {
	b := New(2)
	defer b.Close()

	require.NoError(t, b.SendSignal(1, Message{SrcLocalRank: 0, Kind: DoReduce, Key: 42}))
	msg, err := b.RecvSignal(1)
	require.NoError(t, err)
	assert.Equal(t, Message{SrcLocalRank: 0, Kind: DoReduce, Key: 42}, msg)
}

func TestBroadcastExcludesSource(t *testing.T) {
	b := New(3)
	defer b.Close()

	require.NoError(t, b.BroadcastSignal(0, Message{SrcLocalRank: 0, Kind: DoGroup}))

	msg1, err := b.RecvSignal(1)
	require.NoError(t, err)
	assert.Equal(t, DoGroup, msg1.Kind)

	msg2, err := b.RecvSignal(2)
	require.NoError(t, err)
	assert.Equal(t, DoGroup, msg2.Kind)

	select {
	case <-b.inboxes[0]:
		t.Fatal("broadcast source should not receive its own message")
	default:
	}
}

func TestSendOrderPreserved(t *testing.T) {
	b := New(2)
	defer b.Close()

	for i := uint64(0); i < 5; i++ {
		require.NoError(t, b.SendSignal(1, Message{Kind: ReduceReady, Key: i}))
	}
	for i := uint64(0); i < 5; i++ {
		msg, err := b.RecvSignal(1)
		require.NoError(t, err)
		assert.Equal(t, i, msg.Key)
	}
}

func TestSendOutOfRange(t *testing.T) {
	b := New(2)
	defer b.Close()
	assert.Error(t, b.SendSignal(5, Message{}))
	_, err := b.RecvSignal(5)
	assert.Error(t, err)
}

func TestCloseUnblocksRecv(t *testing.T) {
	b := New(1)
	done := make(chan error, 1)
	go func() {
		_, err := b.RecvSignal(0)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	b.Close()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("RecvSignal did not unblock after Close")
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "REDUCE_READY", ReduceReady.String())
	assert.Equal(t, "DO_GROUP", DoGroup.String())
	assert.Equal(t, "UNKNOWN", Kind(99).String())
}
