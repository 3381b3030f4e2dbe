package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []BucketItem {
	return []BucketItem{
		{ID: 1, Title: "Skydive", OwnerName: "ana"},
		{ID: 2, Title: "Learn Go", OwnerName: "bob", Completed: true},
		{ID: 3, Title: "Visit Riga", OwnerName: "ana", Completed: true},
	}
}

func TestOwnedBy_FiltersByUsernameKeepingOrder(t *testing.T) {
	got := OwnedBy(sampleItems(), "ana")
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestOwnedBy_EmptyUsernameMatchesNothing(t *testing.T) {
	items := append(sampleItems(), BucketItem{ID: 4})
	assert.Empty(t, OwnedBy(items, ""))
}

func TestFilter_Apply(t *testing.T) {
	items := sampleItems()

	assert.Len(t, FilterAll.Apply(items), 3)

	active := FilterActive.Apply(items)
	require.Len(t, active, 1)
	assert.Equal(t, "Skydive", active[0].Title)

	done := FilterCompleted.Apply(items)
	require.Len(t, done, 2)
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, FilterActive, ParseFilter("active"))
	assert.Equal(t, FilterCompleted, ParseFilter("completed"))
	assert.Equal(t, FilterAll, ParseFilter(""))
	assert.Equal(t, FilterAll, ParseFilter("archived"))
}

func TestBucketItem_Status(t *testing.T) {
	assert.Equal(t, StatusActive, BucketItem{}.Status())
	assert.Equal(t, StatusCompleted, BucketItem{Completed: true}.Status())
}

func TestPatchAndUpdate_IsEmpty(t *testing.T) {
	assert.True(t, BucketPatch{}.IsEmpty())
	title := "x"
	assert.False(t, BucketPatch{Title: &title}.IsEmpty())

	assert.True(t, ProfileUpdate{}.IsEmpty())
	assert.False(t, ProfileUpdate{Bio: &title}.IsEmpty())
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ana Lee", User{Username: "ana", FirstName: "Ana", LastName: "Lee"}.DisplayName())
	assert.Equal(t, "ana", User{Username: "ana"}.DisplayName())
}

func TestSession_IsZero(t *testing.T) {
	assert.True(t, Session{User: User{ID: 7}}.IsZero())
	assert.False(t, Session{AccessToken: "t1"}.IsZero())
}
