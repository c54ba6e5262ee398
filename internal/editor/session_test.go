package editor

import (
	"context"
	"sync"
	"testing"
	"time"

	"thumbnail-creator/internal/config"
	"thumbnail-creator/internal/domain"

	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

func newTestRegistry() *Registry {
	return NewRegistry(config.SessionConfig{IdleTTL: time.Minute, MailboxSize: 4}, &zlog.Logger)
}

func TestSessionStartsWithDefaults(t *testing.T) {
	reg := newTestRegistry()
	defer reg.Shutdown()

	st, err := reg.Create().Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.DefaultThumbnail(), st.Data)
	require.Zero(t, st.Version)
}

func TestSessionDispatchMergesInOrder(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry()
	defer reg.Shutdown()
	s := reg.Create()

	_, err := s.Dispatch(ctx, domain.TitlePatch("POV"))
	require.NoError(t, err)
	_, err = s.Dispatch(ctx, domain.FgScalePatch(0.5))
	require.NoError(t, err)
	st, err := s.Dispatch(ctx, domain.TitlePatch("Final"))
	require.NoError(t, err)

	require.Equal(t, "Final", st.Data.Title)
	require.Equal(t, 0.5, st.Data.FgScale)
	require.Equal(t, uint64(3), st.Version)

	st, err = s.Dispatch(ctx, domain.Patch{})
	require.NoError(t, err)
	require.Equal(t, uint64(3), st.Version)
}

func TestSessionConcurrentPositionUpdatesStayPaired(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry()
	defer reg.Shutdown()
	s := reg.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			if _, err := s.Dispatch(ctx, domain.FgPositionPatch(v, v)); err != nil {
				t.Errorf("dispatch: %v", err)
			}
		}(float64(i))
	}
	for i := 0; i < 50; i++ {
		st, err := s.Snapshot(ctx)
		require.NoError(t, err)
		require.Equal(t, st.Data.FgPosition.X, st.Data.FgPosition.Y)
	}
	wg.Wait()

	st, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(50), st.Version)
	require.Equal(t, st.Data.FgPosition.X, st.Data.FgPosition.Y)
}

func TestSessionStaleUploadIsDiscarded(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry()
	defer reg.Shutdown()
	s := reg.Create()

	first, err := s.BeginUpload(ctx, domain.LayerBackground)
	require.NoError(t, err)
	second, err := s.BeginUpload(ctx, domain.LayerBackground)
	require.NoError(t, err)
	require.Greater(t, second.ID, first.ID)

	newer := domain.DataImage("data:image/png;base64,BB==")
	older := domain.DataImage("data:image/png;base64,AA==")

	st, err := s.CompleteUpload(ctx, second, newer)
	require.NoError(t, err)
	require.Equal(t, newer, st.Data.BgImage)

	st, err = s.CompleteUpload(ctx, first, older)
	require.ErrorIs(t, err, ErrStaleUpload)
	require.Equal(t, newer, st.Data.BgImage)
}

func TestSessionUploadTicketsArePerLayer(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry()
	defer reg.Shutdown()
	s := reg.Create()

	bg, err := s.BeginUpload(ctx, domain.LayerBackground)
	require.NoError(t, err)
	fg, err := s.BeginUpload(ctx, domain.LayerForeground)
	require.NoError(t, err)

	ref := domain.DataImage("data:image/png;base64,AA==")
	_, err = s.CompleteUpload(ctx, fg, ref)
	require.NoError(t, err)
	st, err := s.CompleteUpload(ctx, bg, ref)
	require.NoError(t, err)

	require.Equal(t, ref, st.Data.BgImage)
	require.Equal(t, ref, st.Data.FgImage)
}

func TestClosedSessionRejectsCommands(t *testing.T) {
	reg := newTestRegistry()
	s := reg.Create()
	require.NoError(t, reg.Close(s.ID()))

	_, err := s.Dispatch(context.Background(), domain.TitlePatch("late"))
	require.ErrorIs(t, err, ErrSessionClosed)

	_, err = reg.Get(s.ID())
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.ErrorIs(t, reg.Close(s.ID()), ErrSessionNotFound)
}

func TestSessionHonoursContextCancellation(t *testing.T) {
	reg := newTestRegistry()
	defer reg.Shutdown()
	s := reg.Create()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Snapshot(ctx)
	if err != nil {
		require.ErrorIs(t, err, context.Canceled)
	}
}

func TestSessionReportsQueuedMergeAfterCancellation(t *testing.T) {
	reg := newTestRegistry()
	defer reg.Shutdown()
	s := reg.Create()

	// Hold the owner goroutine so the next command stays queued.
	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_, err := s.Update(context.Background(), func(domain.ThumbnailData) domain.Patch {
			close(started)
			<-release
			return domain.Patch{}
		})
		if err != nil {
			t.Errorf("update: %v", err)
		}
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		st  State
		err error
	}
	done := make(chan result, 1)
	go func() {
		st, err := s.Dispatch(ctx, domain.TitlePatch("Applied"))
		done <- result{st, err}
	}()

	require.Eventually(t, func() bool { return len(s.mailbox) == 1 }, time.Second, time.Millisecond)
	cancel()
	close(release)

	res := <-done
	require.NoError(t, res.err)
	require.Equal(t, "Applied", res.st.Data.Title)
	require.Equal(t, uint64(1), res.st.Version)
}

func TestSessionUpdateTogglesAtomically(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry()
	defer reg.Shutdown()
	s := reg.Create()

	toggle := func(d domain.ThumbnailData) domain.Patch {
		return domain.TitleFontStylePatch(d.TitleFontStyle.Toggle(domain.StyleItalic))
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Update(ctx, toggle); err != nil {
				t.Errorf("update: %v", err)
			}
		}()
	}
	wg.Wait()

	st, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.False(t, st.Data.TitleFontStyle.Has(domain.StyleItalic))
	require.True(t, st.Data.TitleFontStyle.Has(domain.StyleFontBold))
	require.Equal(t, uint64(20), st.Version)
}
