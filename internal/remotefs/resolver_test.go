package remotefs

import (
	"context"
	"errors"
	"testing"
)

// fakeLinkReader serves link metadata from a map of path -> target.
type fakeLinkReader struct {
	links map[string]string
	calls int
}

func (f *fakeLinkReader) IsLink(_ context.Context, path string) bool {
	f.calls++
	_, ok := f.links[path]
	return ok
}

func (f *fakeLinkReader) ReadLink(_ context.Context, path string) (string, error) {
	target, ok := f.links[path]
	if !ok {
		return "", errors.New("not a link")
	}
	return target, nil
}

func TestResolveNonLink(t *testing.T) {
	lr := &fakeLinkReader{links: map[string]string{}}
	got, err := ResolveLink(context.Background(), lr, "/sdcard/DCIM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/sdcard/DCIM" {
		t.Errorf("resolved = %q, want unchanged path", got)
	}
}

func TestResolveAbsoluteChain(t *testing.T) {
	lr := &fakeLinkReader{links: map[string]string{
		"/sdcard": "/storage/self/primary",
		"/storage/self/primary": "/storage/emulated/0",
	}}
	got, err := ResolveLink(context.Background(), lr, "/sdcard")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/storage/emulated/0" {
		t.Errorf("resolved = %q, want /storage/emulated/0", got)
	}
}

func TestResolveRelativeTargetJoinsLinkDirectory(t *testing.T) {
	// /a -> b, where /a lives in /; final target is /b.
	lr := &fakeLinkReader{links: map[string]string{
		"/a": "b",
	}}
	got, err := ResolveLink(context.Background(), lr, "/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/b" {
		t.Errorf("resolved = %q, want /b", got)
	}
}

func TestResolveRelativeTargetWithDotDot(t *testing.T) {
	lr := &fakeLinkReader{links: map[string]string{
		"/system/bin/sh": "../lib/sh-real",
	}}
	got, err := ResolveLink(context.Background(), lr, "/system/bin/sh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/system/lib/sh-real" {
		t.Errorf("resolved = %q, want /system/lib/sh-real", got)
	}
}

func TestResolveCycleReturnsTooManyLinks(t *testing.T) {
	lr := &fakeLinkReader{links: map[string]string{
		"/a": "/b",
		"/b": "/a",
	}}
	_, err := ResolveLink(context.Background(), lr, "/a")
	if !errors.Is(err, ErrTooManyLinks) {
		t.Errorf("error = %v, want ErrTooManyLinks", err)
	}
}

func TestResolveSelfCycle(t *testing.T) {
	lr := &fakeLinkReader{links: map[string]string{
		"/loop": "/loop",
	}}
	_, err := ResolveLink(context.Background(), lr, "/loop")
	if !errors.Is(err, ErrTooManyLinks) {
		t.Errorf("error = %v, want ErrTooManyLinks", err)
	}
	// Guard against unbounded iteration: the cap is 10 hops, one IsLink
	// call per hop.
	if lr.calls > 11 {
		t.Errorf("resolver made %d IsLink calls, expected bounded iteration", lr.calls)
	}
}

func TestResolveChainAtCapSucceeds(t *testing.T) {
	// 9 hops of links ending at a real file resolves within the cap.
	links := map[string]string{}
	for i := 0; i < 9; i++ {
		links[linkName(i)] = linkName(i + 1)
	}
	lr := &fakeLinkReader{links: links}

	got, err := ResolveLink(context.Background(), lr, linkName(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != linkName(9) {
		t.Errorf("resolved = %q, want %q", got, linkName(9))
	}
}

func linkName(i int) string {
	return "/links/l" + string(rune('a'+i))
}

// brokenLinkReader reports everything as a link but cannot read targets.
type brokenLinkReader struct{}

func (brokenLinkReader) IsLink(_ context.Context, _ string) bool { return true }
func (brokenLinkReader) ReadLink(_ context.Context, _ string) (string, error) {
	return "", errors.New("readlink: No such file or directory")
}

func TestResolveBrokenLinkReturnsUnresolvableTarget(t *testing.T) {
	_, err := ResolveLink(context.Background(), brokenLinkReader{}, "/dangling")
	if !errors.Is(err, ErrUnresolvableTarget) {
		t.Errorf("error = %v, want ErrUnresolvableTarget", err)
	}
	if errors.Is(err, ErrTooManyLinks) {
		t.Error("broken link must not be classified as a cycle")
	}
}

// emptyTargetReader returns an empty target text without an error.
type emptyTargetReader struct{}

func (emptyTargetReader) IsLink(_ context.Context, _ string) bool { return true }
func (emptyTargetReader) ReadLink(_ context.Context, _ string) (string, error) {
	return "", nil
}

func TestResolveEmptyTargetIsUnresolvable(t *testing.T) {
	_, err := ResolveLink(context.Background(), emptyTargetReader{}, "/weird")
	if !errors.Is(err, ErrUnresolvableTarget) {
		t.Errorf("error = %v, want ErrUnresolvableTarget", err)
	}
}
