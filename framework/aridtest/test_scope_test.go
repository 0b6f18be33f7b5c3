package aridtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestScopeExitsImmediatelyOnFailNow(t *testing.T) {
	executed1 := false
	executed2 := false
	executed3 := false
	_ = Run(TestConfiguration{}, func(at *T) {
		at.Run("", func(at *T) {
			executed1 = true
			at.FailNow()
			executed2 = true
		})
		executed3 = true
	})
	assert.True(t, executed1)
	assert.False(t, executed2)
	assert.True(t, executed3)
}

func TestTestScopeExitsImmediatelyOnSkip(t *testing.T) {
	executed1 := false
	executed2 := false
	executed3 := false
	_ = Run(TestConfiguration{}, func(at *T) {
		at.Run("", func(at *T) {
			executed1 = true
			at.Skip()
			executed2 = true
		})
		executed3 = true
	})
	assert.True(t, executed1)
	assert.False(t, executed2)
	assert.True(t, executed3)
}

func TestTestScopePassedResult(t *testing.T) {
	result := Run(TestConfiguration{}, func(at *T) {
		at.Run("parent", func(at0 *T) {
			at0.Run("subtest1", func(at1 *T) {})
			at0.Run("subtest2", func(at2 *T) {})
		})
	})

	assert.True(t, result.OK())
	require.Len(t, result.Tests, 4)
	assert.Len(t, result.Failures, 0)

	assert.Equal(t, TestID{"parent", "subtest1"}, result.Tests[0].TestID)
	assert.Equal(t, TestID{"parent", "subtest2"}, result.Tests[1].TestID)
	assert.Equal(t, TestID{"parent"}, result.Tests[2].TestID)
	assert.Nil(t, result.Tests[3].TestID)
}

func TestTestScopeFailedResult(t *testing.T) {
	result := Run(TestConfiguration{}, func(at *T) {
		at.Run("parent", func(at0 *T) {
			at0.Run("subtest1", func(at1 *T) {})
			at0.Run("subtest2", func(at2 *T) {
				at2.Errorf("failed because %s", "reasons")
				at2.Errorf("and failed some more")
			})
			at0.Errorf("and parent failed")
		})
	})

	assert.False(t, result.OK())
	require.Len(t, result.Tests, 4)
	assert.Len(t, result.Failures, 2)

	assert.Len(t, result.Tests[0].Errors, 0)
	require.Len(t, result.Tests[1].Errors, 2)
	assert.Equal(t, "failed because reasons", result.Tests[1].Errors[0].Error())
	assert.Equal(t, "and failed some more", result.Tests[1].Errors[1].Error())
	require.Len(t, result.Tests[2].Errors, 1)
	assert.Equal(t, "and parent failed", result.Tests[2].Errors[0].Error())
}

func TestTestScopeNonCriticalResult(t *testing.T) {
	result := Run(TestConfiguration{}, func(at *T) {
		at.Run("flaky", func(at1 *T) {
			at1.NonCritical("known issue")
			at1.Errorf("nope")
		})
	})
	assert.True(t, result.OK())
	require.Len(t, result.NonCriticalFailures, 1)
	assert.Equal(t, "known issue", result.NonCriticalFailures[0].Explanation)
	assert.True(t, result.NonCriticalFailures[0].NonCritical)
}

func TestTestScopePanicIsFailure(t *testing.T) {
	result := Run(TestConfiguration{}, func(at *T) {
		at.Run("explodes", func(at1 *T) {
			panic("boom")
		})
	})
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0].Errors[0].Error(), "unexpected panic in test: boom")
}

func TestTestScopeSkippedResult(t *testing.T) {
	result := Run(TestConfiguration{}, func(at *T) {
		at.Run("parent", func(at0 *T) {
			at0.Run("subtest1", func(at1 *T) {
				at1.Skip()
			})
			at0.Run("subtest2", func(at2 *T) {
				at2.SkipWithReason("why not")
			})
		})
	})

	assert.True(t, result.OK())
	require.Len(t, result.Tests, 2)
	assert.Equal(t, TestID{"parent"}, result.Tests[0].TestID)
	assert.Nil(t, result.Tests[1].TestID)
}

func TestTestScopeFilter(t *testing.T) {
	filter := FilterFunc(func(id TestID) bool {
		return len(id) == 0 || id[0] == "b"
	})

	result := Run(TestConfiguration{Filter: filter}, func(at *T) {
		at.Run("a", func(at0 *T) {
			at0.Run("sub1a", func(at1 *T) {})
		})
		at.Run("b", func(at0 *T) {
			at0.Run("sub1b", func(at1 *T) {})
			at0.Run("sub2b", func(at1 *T) {})
		})
	})

	assert.True(t, result.OK())
	require.Len(t, result.Tests, 4)
	assert.Equal(t, TestID{"b", "sub1b"}, result.Tests[0].TestID)
	assert.Equal(t, TestID{"b", "sub2b"}, result.Tests[1].TestID)
	assert.Equal(t, TestID{"b"}, result.Tests[2].TestID)
	assert.Equal(t, TestID(nil), result.Tests[3].TestID)
}

func TestTestScopeDeferRunsInReverseOrder(t *testing.T) {
	var order []string
	_ = Run(TestConfiguration{}, func(at *T) {
		at.Run("x", func(at1 *T) {
			at1.Defer(func() { order = append(order, "first") })
			at1.Defer(func() { order = append(order, "second") })
			at1.FailNow()
		})
	})
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestTestScopeDeferRunsAfterSkip(t *testing.T) {
	ran := false
	result := Run(TestConfiguration{}, func(at *T) {
		at.Run("x", func(at1 *T) {
			at1.Defer(func() { ran = true })
			at1.SkipWithReason("no steps")
		})
	})
	assert.True(t, ran)
	assert.True(t, result.OK())
}

func TestTestScopeFailNowWithoutMessage(t *testing.T) {
	result := Run(TestConfiguration{}, func(at *T) {
		at.Run("x", func(at1 *T) { at1.FailNow() })
	})
	require.Len(t, result.Failures, 1)
	assert.Equal(t, errFailedWithoutMessage, result.Failures[0].Errors[0])
}

func TestDebugOutputReachesLogger(t *testing.T) {
	var rec recordingTestLogger
	_ = Run(TestConfiguration{TestLogger: &rec}, func(at *T) {
		at.Run("x", func(at1 *T) {
			at1.Debug("GET %s", "/articles")
			at1.DebugLogger().Println("done")
		})
	})
	require.Len(t, rec.finished, 1)
	assert.Equal(t, "GET /articles", rec.finished[0][0].Message)
	assert.Equal(t, "done", rec.finished[0][1].Message)
	assert.Equal(t, []string{"x"}, rec.started)
}
