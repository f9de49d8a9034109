package devserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ListOrderAndOpen(t *testing.T) {
	s := NewStore()
	late := s.Create(Tournament{Name: "Late", Date: "2030-02-01", Time: "20:00", MaxEntrants: 1})
	early := s.Create(Tournament{Name: "Early", Date: "2030-01-01", Time: "09:00", MaxEntrants: 4})
	sameDay := s.Create(Tournament{Name: "Morning", Date: "2030-02-01", Time: "08:00", MaxEntrants: 4})

	got := s.List()
	require.Len(t, got, 3)
	assert.Equal(t, []int64{early.ID, sameDay.ID, late.ID}, []int64{got[0].ID, got[1].ID, got[2].ID})

	_, err := s.Register(Registration{TournamentID: late.ID, Email: "x@y.z"})
	require.NoError(t, err)
	for _, o := range s.Open() {
		assert.NotEqual(t, late.ID, o.ID)
	}
	assert.Len(t, s.Open(), 2)
}

func TestStore_RegisterErrors(t *testing.T) {
	s := NewStore()
	one := s.Create(Tournament{Name: "Solo", MaxEntrants: 1})

	r, err := s.Register(Registration{TournamentID: one.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)

	_, err = s.Register(Registration{TournamentID: one.ID})
	assert.ErrorIs(t, err, ErrFull)

	_, err = s.Register(Registration{TournamentID: 404})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpdateDelete(t *testing.T) {
	s := NewStore()
	t1 := s.Create(Tournament{Name: "Before", MaxEntrants: 2})
	_, _ = s.Register(Registration{TournamentID: t1.ID})

	require.NoError(t, s.Update(t1.ID, Tournament{Name: "After", MaxEntrants: 3}))
	got, _ := s.Get(t1.ID)
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, t1.ID, got.ID)

	require.NoError(t, s.Delete(t1.ID))
	assert.Empty(t, s.Entries(t1.ID))
	assert.ErrorIs(t, s.Delete(t1.ID), ErrNotFound)
	assert.ErrorIs(t, s.Update(t1.ID, Tournament{}), ErrNotFound)
}
