package helpers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestRecorder(t *testing.T) {
	t.Run("Errorf", func(t *testing.T) {
		var tr TestRecorder
		tr.Errorf("hello %s", "there")
		tr.Errorf("bye")
		assert.Equal(t, []string{"hello there", "bye"}, tr.Errors)
		assert.False(t, tr.Terminated)
	})

	t.Run("FailNow", func(t *testing.T) {
		var tr1 TestRecorder
		tr1.FailNow()
		assert.True(t, tr1.Terminated)

		tr2 := TestRecorder{PanicOnTerminate: true}
		assert.PanicsWithValue(t, &tr2, func() { tr2.FailNow() })
		assert.True(t, tr2.Terminated)
	})

	t.Run("Err", func(t *testing.T) {
		var tr TestRecorder
		assert.Nil(t, tr.Err())

		tr.Errorf("hello %s", "there")
		tr.Errorf("bye")
		assert.Equal(t, errors.New("hello there, bye"), tr.Err())
	})
}

func TestFailf(t *testing.T) {
	tr := TestRecorder{PanicOnTerminate: true}
	reached := false
	completed := tr.RunRecorded(func() {
		Failf(&tr, "missing field %q", "article[title]")
		reached = true
	})
	assert.False(t, completed)
	assert.False(t, reached)
	assert.Equal(t, []string{`missing field "article[title]"`}, tr.Errors)
	assert.True(t, tr.Terminated)
}

func TestRunRecordedPassesForeignPanics(t *testing.T) {
	tr := TestRecorder{PanicOnTerminate: true}
	assert.PanicsWithValue(t, "boom", func() {
		tr.RunRecorded(func() { panic("boom") })
	})
	assert.True(t, tr.RunRecorded(func() {}))
}
