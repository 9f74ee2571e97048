package platforms

import (
	"errors"
	"testing"

	"github.com/auxshare/auxd/internal/shared"
)

func TestRegistry(t *testing.T) {
	newPopulated := func() *Registry {
		r := NewRegistry()
		r.Register(NewSpotifyPlatform("id", "secret"), SpotifyURLPatterns...)
		r.Register(NewYouTubeMusicPlatform(""), YouTubeMusicURLPatterns...)
		r.Register(NewAppleMusicPlatform(), AppleMusicURLPatterns...)
		return r
	}

	t.Run("Register", func(t *testing.T) {
		t.Run("rejects invalid patterns", func(t *testing.T) {
			r := NewRegistry()
			if err := r.Register(NewAppleMusicPlatform(), `[unclosed`); err == nil {
				t.Error("expected an error for an invalid pattern")
			}
		})

		t.Run("re-registering keeps order stable", func(t *testing.T) {
			r := newPopulated()
			r.Register(NewSpotifyPlatform("id2", "secret2"), SpotifyURLPatterns...)

			all := r.All()
			if len(all) != 3 {
				t.Fatalf("expected 3 platforms, got %d", len(all))
			}
			if all[0].Name != "spotify" {
				t.Errorf("expected spotify to keep first position, got %q", all[0].Name)
			}
		})
	})

	t.Run("Classify", func(t *testing.T) {
		r := newPopulated()

		cases := []struct {
			name string
			url  string
			want string
		}{
			{"spotify playlist URL", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M", "spotify"},
			{"spotify URI", "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M", "spotify"},
			{"spotify album URL", "https://open.spotify.com/album/4LH4d3cOWNNsVw41Gqt2kv", "spotify"},
			{"youtube music playlist", "https://music.youtube.com/playlist?list=PLabc123", "youtube_music"},
			{"youtube music watch", "https://music.youtube.com/watch?v=abc&list=PLabc123", "youtube_music"},
			{"apple music playlist", "https://music.apple.com/us/playlist/chill/pl.abc123", "apple_music"},
			{"apple music album", "https://music.apple.com/us/album/discovery/697194953", "apple_music"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				info, err := r.Classify(tc.url)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if info.Name != tc.want {
					t.Errorf("expected %q, got %q", tc.want, info.Name)
				}
			})
		}

		t.Run("unknown URL", func(t *testing.T) {
			_, err := r.Classify("https://soundcloud.com/someone/sets/mix")
			if !errors.Is(err, shared.ErrUnknownPlatform) {
				t.Errorf("expected ErrUnknownPlatform, got %v", err)
			}
		})

		t.Run("plain youtube URL is not youtube music", func(t *testing.T) {
			_, err := r.Classify("https://www.youtube.com/playlist?list=PLabc123")
			if !errors.Is(err, shared.ErrUnknownPlatform) {
				t.Errorf("expected ErrUnknownPlatform, got %v", err)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		r := newPopulated()

		if _, err := r.Get("spotify"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if _, err := r.Get("tidal"); !errors.Is(err, shared.ErrUnknownPlatform) {
			t.Errorf("expected ErrUnknownPlatform, got %v", err)
		}
	})

	t.Run("Sources excludes write-only platforms", func(t *testing.T) {
		r := newPopulated()

		sources := r.Sources()
		if len(sources) != 2 {
			t.Fatalf("expected 2 sources, got %d", len(sources))
		}
		for _, info := range sources {
			if info.Name == "apple_music" {
				t.Error("apple_music must not be a source")
			}
		}
	})

	t.Run("Targets includes every platform", func(t *testing.T) {
		r := newPopulated()

		targets := r.Targets()
		if len(targets) != 3 {
			t.Fatalf("expected 3 targets, got %d", len(targets))
		}
	})
}

func TestFetchError(t *testing.T) {
	t.Run("IsTransient", func(t *testing.T) {
		transient := NewFetchError("spotify", "op", FailureTransient, errors.New("busy"))
		permanent := NewFetchError("spotify", "op", FailurePermanent, errors.New("forbidden"))

		if !IsTransient(transient) {
			t.Error("expected transient error to be transient")
		}
		if IsTransient(permanent) {
			t.Error("expected permanent error not to be transient")
		}
		if IsTransient(errors.New("plain")) {
			t.Error("expected plain error not to be transient")
		}
	})

	t.Run("IsUnsupported", func(t *testing.T) {
		unsupported := NewFetchError("apple_music", "op", FailureUnsupported, errors.New("no api"))

		if !IsUnsupported(unsupported) {
			t.Error("expected unsupported error to be unsupported")
		}
		if IsUnsupported(errors.New("plain")) {
			t.Error("expected plain error not to be unsupported")
		}
	})

	t.Run("kindFromStatus", func(t *testing.T) {
		cases := []struct {
			status int
			want   FailureKind
		}{
			{404, FailureNotFound},
			{429, FailureTransient},
			{500, FailureTransient},
			{503, FailureTransient},
			{401, FailurePermanent},
			{403, FailurePermanent},
		}

		for _, tc := range cases {
			if got := kindFromStatus(tc.status); got != tc.want {
				t.Errorf("kindFromStatus(%d) = %v, want %v", tc.status, got, tc.want)
			}
		}
	})
}
