package overlay

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmobowz/cosmo/api"
)

func newTestManager() *ToastManager {
	s := spinner.New()
	return NewToastManager(&s)
}

// backdate shifts a toast's phase clock so Tick sees the elapsed time without
// the test actually sleeping.
func backdate(tm *ToastManager, id string, d time.Duration) {
	for _, t := range tm.toasts {
		if t.ID == id {
			t.PhaseStart = t.PhaseStart.Add(-d)
		}
	}
}

func findToast(tm *ToastManager, id string) *toast {
	for _, t := range tm.toasts {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func TestToastLifecycle(t *testing.T) {
	tm := newTestManager()
	id := tm.Success("saved")

	tst := findToast(tm, id)
	require.NotNil(t, tst)
	assert.Equal(t, PhaseSlidingIn, tst.Phase)
	assert.Equal(t, DismissAfter, tst.Duration)

	backdate(tm, id, SlideInDuration)
	tm.Tick()
	assert.Equal(t, PhaseVisible, tst.Phase)

	backdate(tm, id, DismissAfter)
	tm.Tick()
	assert.Equal(t, PhaseSlidingOut, tst.Phase)

	backdate(tm, id, SlideOutDuration)
	tm.Tick()
	assert.Nil(t, findToast(tm, id), "finished toasts are removed")
	assert.False(t, tm.HasActiveToasts())
}

func TestAllTypesShareTheDismissWindow(t *testing.T) {
	tm := newTestManager()
	ids := []string{
		tm.Info("a"),
		tm.Success("b"),
		tm.Warning("c"),
		tm.Error("d"),
	}
	for _, id := range ids {
		require.Equal(t, DismissAfter, findToast(tm, id).Duration)
	}
}

func TestLoadingToastNeverAutoDismisses(t *testing.T) {
	tm := newTestManager()
	id := tm.Loading("generating plan")

	tst := findToast(tm, id)
	require.NotNil(t, tst)
	assert.Zero(t, tst.Duration)

	backdate(tm, id, SlideInDuration)
	tm.Tick()
	backdate(tm, id, time.Minute)
	tm.Tick()
	assert.Equal(t, PhaseVisible, tst.Phase, "loading toasts stay up until resolved")
}

func TestResolve_TransitionsLoadingToast(t *testing.T) {
	tm := newTestManager()
	id := tm.Loading("approving")

	tm.Resolve(id, ToastSuccess, "idea approved")

	tst := findToast(tm, id)
	require.NotNil(t, tst)
	assert.Equal(t, ToastSuccess, tst.Type)
	assert.Equal(t, "idea approved", tst.Message)
	assert.Equal(t, PhaseVisible, tst.Phase)
	assert.Equal(t, DismissAfter, tst.Duration)
}

func TestResolve_UnknownIDIsNoop(t *testing.T) {
	tm := newTestManager()
	tm.Info("hello")
	tm.Resolve("toast-does-not-exist", ToastError, "ignored")
	assert.Len(t, tm.toasts, 1)
}

func TestDuplicateToastResetsTimerInsteadOfStacking(t *testing.T) {
	tm := newTestManager()
	first := tm.Error("save failed")
	second := tm.Error("save failed")

	assert.Equal(t, first, second)
	assert.Len(t, tm.toasts, 1)
}

func TestMaxToasts_EvictsOldestNonLoading(t *testing.T) {
	tm := newTestManager()
	loading := tm.Loading("working")
	var oldest string
	for i := 0; i < MaxToasts; i++ {
		id := tm.Info(time.Duration(i).String())
		if i == 0 {
			oldest = id
		}
	}

	assert.Len(t, tm.toasts, MaxToasts)
	assert.NotNil(t, findToast(tm, loading), "loading toasts survive eviction")
	assert.Nil(t, findToast(tm, oldest), "the oldest info toast is evicted first")
}

func TestActivity_MapsLogTypeToToastType(t *testing.T) {
	cases := []struct {
		logType api.LogType
		want    ToastType
	}{
		{api.LogSuccess, ToastSuccess},
		{api.LogWarning, ToastWarning},
		{api.LogError, ToastError},
		{api.LogInfo, ToastInfo},
		{api.LogSystem, ToastInfo},
	}
	for _, tc := range cases {
		tm := newTestManager()
		id := tm.Activity(api.LogEntry{Type: tc.logType, Message: "x"})
		assert.Equal(t, tc.want, findToast(tm, id).Type)
	}
}

func TestCalcToastWidth_Clamped(t *testing.T) {
	assert.Equal(t, MinToastWidth, calcToastWidth("hi"))
	long := "a very long toast message that certainly exceeds the maximum width a toast may occupy"
	assert.Equal(t, MaxToastWidth, calcToastWidth(long))
}

func TestView_EmptyWhenNoToasts(t *testing.T) {
	tm := newTestManager()
	assert.Empty(t, tm.View())
	tm.Info("hello")
	assert.NotEmpty(t, tm.View())
}
