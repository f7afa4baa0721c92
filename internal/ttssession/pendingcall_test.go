package ttssession

import (
	"errors"
	"testing"
	"time"
)

func TestPendingCall_CompleteUnblocksWait(t *testing.T) {
	t.Parallel()
	c := newPendingCall("r1")
	c.appendAudio([]byte("abc"), "audio/mpeg")
	c.appendAudio([]byte("def"), "")
	c.complete()

	audio, mediaType, err := c.Wait()
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if string(audio) != "abcdef" {
		t.Errorf("audio = %q, want abcdef", audio)
	}
	if mediaType != "audio/mpeg" {
		t.Errorf("mediaType = %q, want audio/mpeg", mediaType)
	}
}

func TestPendingCall_FailUnblocksWaitWithError(t *testing.T) {
	t.Parallel()
	c := newPendingCall("r1")
	wantErr := errors.New("boom")
	c.fail(wantErr)

	_, _, err := c.Wait()
	if !errors.Is(err, wantErr) {
		t.Fatalf("Wait() error = %v, want %v", err, wantErr)
	}
}

func TestPendingCall_CompleteAndFailAreIdempotent(t *testing.T) {
	t.Parallel()
	c := newPendingCall("r1")
	c.complete()
	c.fail(errors.New("ignored"))

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("Done() channel never closed")
	}
	_, _, err := c.Wait()
	if err != nil {
		t.Errorf("Wait() error = %v, want nil (first resolution wins)", err)
	}
}

func TestPendingCall_MediaTypeSetOnlyOnFirstFrame(t *testing.T) {
	t.Parallel()
	c := newPendingCall("r1")
	c.appendAudio([]byte("a"), "audio/mpeg")
	c.appendAudio([]byte("b"), "audio/wav")
	c.complete()

	_, mediaType, _ := c.Wait()
	if mediaType != "audio/mpeg" {
		t.Errorf("mediaType = %q, want audio/mpeg (first frame wins)", mediaType)
	}
}
