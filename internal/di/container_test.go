package di

import "testing"

func TestContainer_RegisterAndGet(t *testing.T) {
	c := NewContainer()
	c.Register("greeting", "hello")

	if got := c.Get("greeting"); got != "hello" {
		t.Fatalf("Get() = %v, want %q", got, "hello")
	}
}

func TestContainer_GetMissingKeyReturnsNil(t *testing.T) {
	c := NewContainer()
	if got := c.Get("missing"); got != nil {
		t.Fatalf("Get() = %v, want nil", got)
	}
}

func TestRegisterToken_FactoryRunsOnce(t *testing.T) {
	c := NewContainer()
	calls := 0

	RegisterToken(c, "counter", func(ServiceRegistry) int {
		calls++
		return calls
	})

	first := Resolve[int](c, "counter")
	second := Resolve[int](c, "counter")

	if first != 1 || second != 1 {
		t.Fatalf("Resolve() = (%d, %d), want (1, 1) — factory must run exactly once", first, second)
	}
	if calls != 1 {
		t.Fatalf("factory ran %d times, want 1", calls)
	}
}

func TestRegisterToken_FactoryReceivesRegistry(t *testing.T) {
	c := NewContainer()
	c.Register("base", 10)

	RegisterToken(c, "derived", func(sr ServiceRegistry) int {
		return sr.Get("base").(int) + 5
	})

	if got := Resolve[int](c, "derived"); got != 15 {
		t.Fatalf("Resolve() = %d, want 15", got)
	}
}

func TestResolve_PanicsOnUnregisteredToken(t *testing.T) {
	c := NewContainer()
	defer func() {
		if recover() == nil {
			t.Fatal("expected Resolve to panic for an unregistered token")
		}
	}()
	Resolve[string](c, "missing")
}
