package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, doc string) *Node {
	t.Helper()
	node, err := Parse([]byte(doc))
	require.NoError(t, err)
	return node
}

func TestCompare_IdenticalTreesYieldNoChanges(t *testing.T) {
	docs := []string{
		`{"Name":"name","Age":31}`,
		`{"Id":"1","Nested":{"Id":"2","Tags":["a","b"]},"Empty":null}`,
		`[1,2,3]`,
		`"scalar"`,
		`null`,
	}
	for _, doc := range docs {
		x := mustParse(t, doc)
		y := mustParse(t, doc)
		assert.Empty(t, Compare(x, y), "doc: %s", doc)
	}
}

func TestCompare_NilBeforeReportsEveryLeafAdded(t *testing.T) {
	after := mustParse(t, `{"Id":"42","Name":"name","Tags":["x","y"],"Child":{"Depth":2}}`)

	changes := Compare(nil, after)
	require.Len(t, changes, 5)
	for _, c := range changes {
		assert.Equal(t, ChangeAdded, c.Operation)
		assert.Nil(t, c.ValueBefore)
	}

	locations := make([]string, 0, len(changes))
	for _, c := range changes {
		locations = append(locations, c.FieldLocation)
	}
	assert.Equal(t, []string{"Id", "Name", "Tags[0]", "Tags[1]", "Child.Depth"}, locations)
}

func TestCompare_NilAfterReportsEveryLeafDeleted(t *testing.T) {
	before := mustParse(t, `{"Name":"name","Count":3}`)

	changes := Compare(before, nil)
	require.Len(t, changes, 2)
	for _, c := range changes {
		assert.Equal(t, ChangeDeleted, c.Operation)
		assert.Nil(t, c.ValueAfter)
	}
}

func TestCompare_ScalarUpdate(t *testing.T) {
	before := mustParse(t, `{"Name":"old","Age":30}`)
	after := mustParse(t, `{"Name":"new","Age":30}`)

	changes := Compare(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeUpdated, changes[0].Operation)
	assert.Equal(t, "Name", changes[0].FieldName)
	assert.Equal(t, "Name", changes[0].FieldLocation)
	assert.Equal(t, "old", *changes[0].ValueBefore)
	assert.Equal(t, "new", *changes[0].ValueAfter)
}

func TestCompare_NullToValueIsUpdate(t *testing.T) {
	before := mustParse(t, `{"Remark":null}`)
	after := mustParse(t, `{"Remark":"filled in"}`)

	changes := Compare(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeUpdated, changes[0].Operation)
	assert.Nil(t, changes[0].ValueBefore)
	assert.Equal(t, "filled in", *changes[0].ValueAfter)
}

// The observed positional-diff behavior: no move detection. Removing the head
// element and appending a new one reports a tail Added plus a head Deleted,
// never element shifts or a "moved" record.
func TestCompare_SimpleArrayHeadRemoveTailAppend(t *testing.T) {
	before := mustParse(t, `{"Name":"name","EnrolledSubjects":["Another Random Subject","Math","Science","History"]}`)
	after := mustParse(t, `{"Name":"name","EnrolledSubjects":["Math","Science","History","New Subject"]}`)

	changes := Compare(before, after)
	require.Len(t, changes, 2)

	assert.Equal(t, ChangeAdded, changes[0].Operation)
	assert.Equal(t, "EnrolledSubjects[3]", changes[0].FieldLocation)
	assert.Equal(t, "", changes[0].FieldName)
	assert.Equal(t, "New Subject", *changes[0].ValueAfter)
	assert.Nil(t, changes[0].ValueBefore)

	assert.Equal(t, ChangeDeleted, changes[1].Operation)
	assert.Equal(t, "EnrolledSubjects[0]", changes[1].FieldLocation)
	assert.Equal(t, "Another Random Subject", *changes[1].ValueBefore)
	assert.Nil(t, changes[1].ValueAfter)
}

func TestCompare_SimpleArrayReorderIsSilent(t *testing.T) {
	before := mustParse(t, `{"Tags":["a","b","c"]}`)
	after := mustParse(t, `{"Tags":["c","a","b"]}`)

	assert.Empty(t, Compare(before, after))
}

func TestCompare_SimpleArrayDuplicatesStayBalanced(t *testing.T) {
	before := mustParse(t, `{"Tags":["a","a","b"]}`)
	after := mustParse(t, `{"Tags":["a","b"]}`)

	changes := Compare(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeDeleted, changes[0].Operation)
	assert.Equal(t, "Tags[1]", changes[0].FieldLocation)
	assert.Equal(t, "a", *changes[0].ValueBefore)
}

func TestCompare_ObjectArrayAddAndRemoveWholeElements(t *testing.T) {
	before := mustParse(t, `{"ChildItems":[
		{"Id":"1","Name":"first","Sports":["soccer","hockey"]},
		{"Id":"2","Name":"second","Sports":["chess"]}
	]}`)
	after := mustParse(t, `{"ChildItems":[
		{"Id":"1","Name":"first","Sports":["soccer","hockey"]},
		{"Id":"3","Name":"third","Sports":["curling"]}
	]}`)

	changes := Compare(before, after)

	var added, deleted, updated int
	for _, c := range changes {
		switch c.Operation {
		case ChangeAdded:
			added++
			require.NotNil(t, c.ObjectID)
			assert.Equal(t, "3", *c.ObjectID)
		case ChangeDeleted:
			deleted++
			require.NotNil(t, c.ObjectID)
			assert.Equal(t, "2", *c.ObjectID)
		case ChangeUpdated:
			updated++
		}
	}
	// Element 3 is wholly added (Id, Name, Sports[0]), element 2 wholly deleted.
	assert.Equal(t, 3, added)
	assert.Equal(t, 3, deleted)
	assert.Zero(t, updated)
}

func TestCompare_ObjectArrayMatchedPairRecursion(t *testing.T) {
	before := mustParse(t, `{"ChildItems":[{"Id":"1","Name":"kid","Sports":["soccer","hockey","chess"]}]}`)
	after := mustParse(t, `{"ChildItems":[{"Id":"1","Name":"kid","Sports":["soccer","hockey","chess","darts"]}]}`)

	changes := Compare(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeAdded, changes[0].Operation)
	assert.Equal(t, "ChildItems[0].Sports[3]", changes[0].FieldLocation)
	require.NotNil(t, changes[0].ObjectID)
	assert.Equal(t, "1", *changes[0].ObjectID)
}

func TestCompare_ObjectArrayDuplicateIdentitiesAreDeterministic(t *testing.T) {
	before := mustParse(t, `{"Rows":[{"Id":"7","V":"a"},{"Id":"7","V":"b"}]}`)
	after := mustParse(t, `{"Rows":[{"Id":"7","V":"a"},{"Id":"7","V":"c"}]}`)

	first := Compare(before, after)
	for i := 0; i < 10; i++ {
		again := Compare(mustParse(t, `{"Rows":[{"Id":"7","V":"a"},{"Id":"7","V":"b"}]}`),
			mustParse(t, `{"Rows":[{"Id":"7","V":"a"},{"Id":"7","V":"c"}]}`))
		assert.Equal(t, first, again)
	}

	// Positional pairing within the identity group: only the second row changed.
	require.Len(t, first, 1)
	assert.Equal(t, ChangeUpdated, first[0].Operation)
	assert.Equal(t, "Rows[1].V", first[0].FieldLocation)
}

func TestCompare_ObjectIDFromNearestAncestor(t *testing.T) {
	before := mustParse(t, `{"Id":"root","Nested":{"Deep":"old"}}`)
	after := mustParse(t, `{"Id":"root","Nested":{"Deep":"new"}}`)

	changes := Compare(before, after)
	require.Len(t, changes, 1)
	require.NotNil(t, changes[0].ObjectID)
	assert.Equal(t, "root", *changes[0].ObjectID)

	// No identified ancestor anywhere: ObjectID stays nil.
	before = mustParse(t, `{"Nested":{"Deep":"old"}}`)
	after = mustParse(t, `{"Nested":{"Deep":"new"}}`)
	changes = Compare(before, after)
	require.Len(t, changes, 1)
	assert.Nil(t, changes[0].ObjectID)
}

func TestCompare_UnknownFieldsAreOrdinaryChanges(t *testing.T) {
	// A housekeeping field appended on one side only is just an Added leaf.
	before := mustParse(t, `{"Name":"n"}`)
	after := mustParse(t, `{"Name":"n","_etag":"abc"}`)

	changes := Compare(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeAdded, changes[0].Operation)
	assert.Equal(t, "_etag", changes[0].FieldName)
}

func TestCompare_PrimitiveCollectionNormalizedToArray(t *testing.T) {
	// The wrapper's Raw/Key housekeeping must never surface as field changes.
	before := mustParse(t, `{"Sites":{"Raw":"a;b","Key":";","List":["a","b"]}}`)
	after := mustParse(t, `{"Sites":{"Raw":"a;b;c","Key":";","List":["a","b","c"]}}`)

	changes := Compare(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeAdded, changes[0].Operation)
	assert.Equal(t, "Sites[2]", changes[0].FieldLocation)
	assert.Equal(t, "c", *changes[0].ValueAfter)
}

func TestCompare_ShapeChangeReportsDeleteThenAdd(t *testing.T) {
	before := mustParse(t, `{"Value":"scalar"}`)
	after := mustParse(t, `{"Value":{"Amount":"10"}}`)

	changes := Compare(before, after)
	require.Len(t, changes, 2)
	assert.Equal(t, ChangeDeleted, changes[0].Operation)
	assert.Equal(t, "Value", changes[0].FieldLocation)
	assert.Equal(t, ChangeAdded, changes[1].Operation)
	assert.Equal(t, "Value.Amount", changes[1].FieldLocation)
}

func TestCompare_BooleanAndNumberLiterals(t *testing.T) {
	before := mustParse(t, `{"Approved":false,"Weight":12.5}`)
	after := mustParse(t, `{"Approved":true,"Weight":12.50}`)

	changes := Compare(before, after)
	// 12.5 vs 12.50 differ as stored literals; the comparer is textual.
	require.Len(t, changes, 2)
	assert.Equal(t, "false", *changes[0].ValueBefore)
	assert.Equal(t, "true", *changes[0].ValueAfter)
	assert.Equal(t, "12.5", *changes[1].ValueBefore)
	assert.Equal(t, "12.50", *changes[1].ValueAfter)
}

func TestCompare_IdentitySpellingsAllStampObjectID(t *testing.T) {
	// Snapshot producers spell the identity differently: marshaled Go
	// aggregates emit ID, tagged fields emit id, external documents emit Id.
	tests := []struct {
		name string
		doc  string
	}{
		{"untagged Go field", `{"ID":"e9b1","ticket_number":"T-1","status":"OPEN"}`},
		{"lowercase tag", `{"id":"e9b1","ticket_number":"T-1","status":"OPEN"}`},
		{"external document", `{"Id":"e9b1","ticket_number":"T-1","status":"OPEN"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := Compare(nil, mustParse(t, tt.doc))
			require.NotEmpty(t, changes)
			for _, c := range changes {
				require.NotNil(t, c.ObjectID, "change %s must carry the root identity", c.FieldName)
				assert.Equal(t, "e9b1", *c.ObjectID)
			}
		})
	}
}

func TestCompare_ObjectArrayPairsByUntaggedIDSpelling(t *testing.T) {
	before := mustParse(t, `{"Loads":[{"ID":"a","Weight":"10"},{"ID":"b","Weight":"20"}]}`)
	after := mustParse(t, `{"Loads":[{"ID":"b","Weight":"21"},{"ID":"a","Weight":"10"}]}`)

	changes := Compare(before, after)
	require.Len(t, changes, 1)
	assert.Equal(t, "Weight", changes[0].FieldName)
	assert.Equal(t, "20", *changes[0].ValueBefore)
	assert.Equal(t, "21", *changes[0].ValueAfter)
	require.NotNil(t, changes[0].ObjectID)
	assert.Equal(t, "b", *changes[0].ObjectID)
}
