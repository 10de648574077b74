package client_test

import (
	"net/http/httptest"
	"testing"

	"github.com/ValentinKolb/travels/lib/model"
	"github.com/ValentinKolb/travels/lib/store"
	"github.com/ValentinKolb/travels/lib/store/lstore"
	"github.com/ValentinKolb/travels/rpc/client"
	"github.com/ValentinKolb/travels/rpc/common"
	"github.com/ValentinKolb/travels/rpc/serializer"
	"github.com/ValentinKolb/travels/rpc/server"
	"github.com/ValentinKolb/travels/rpc/transport"
	thttp "github.com/ValentinKolb/travels/rpc/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// newClient starts a server for an empty store and returns a client connected to it.
func newClient(t *testing.T, ser serializer.IRPCSerializer) (*client.RPCClient, store.IStore) {
	t.Helper()
	st := lstore.NewLocalStore(lstore.Options{ReferenceTime: 1503695452})
	adapter := server.NewIStoreServerAdapter(ser, false)
	handler := func(req transport.Request) transport.Response { return adapter.Handle(req, st) }

	srv := httptest.NewServer(thttp.NewHttpHandler(handler, false))
	t.Cleanup(srv.Close)

	c, err := client.NewRPCClient(
		common.ClientConfig{Endpoints: []string{srv.URL}, TimeoutSecond: 5, RetryCount: 2},
		thttp.NewHttpClientTransport(),
		ser,
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, st
}

func TestClient(t *testing.T) {
	serializers := map[string]serializer.IRPCSerializer{
		"Fast": serializer.NewFastSerializer(),
		"Std":  serializer.NewStdSerializer(),
	}

	for name, ser := range serializers {
		t.Run(name, func(t *testing.T) {
			c, st := newClient(t, ser)

			ann := model.Person{ID: 1, Email: "a@example.com", FirstName: "Ann", LastName: "Ash", Gender: model.GenderFemale, BirthDate: -712108800}
			bob := model.Person{ID: 2, Email: "b@example.com", FirstName: "Bob", LastName: "Birch", Gender: model.GenderMale, BirthDate: 946684800}
			bar := model.Place{ID: 5, Place: "Bar", Country: "Chile", City: "Arica", Distance: 10}
			museum := model.Place{ID: 6, Place: "Museum", Country: "Peru", City: "Lima", Distance: 20}

			// creates
			require.NoError(t, c.CreatePerson(ann))
			require.NoError(t, c.CreatePerson(bob))
			require.NoError(t, c.CreatePlace(bar))
			require.NoError(t, c.CreatePlace(museum))
			require.NoError(t, c.CreateVisit(model.VisitEvent{ID: 1, Person: 1, Place: 5, VisitedAt: 1000, Mark: 4}))
			require.NoError(t, c.CreateVisit(model.VisitEvent{ID: 2, Person: 2, Place: 5, VisitedAt: 900, Mark: 1}))

			assert.True(t, store.IsConflict(c.CreatePerson(ann)))
			assert.True(t, store.IsBadRequest(c.CreateVisit(model.VisitEvent{ID: 3, Person: 9, Place: 5})))

			// lookups
			got, err := c.GetPerson(1)
			require.NoError(t, err)
			assert.Equal(t, ann, got)
			gotPlace, err := c.GetPlace(6)
			require.NoError(t, err)
			assert.Equal(t, museum, gotPlace)
			gotVisit, err := c.GetVisit(2)
			require.NoError(t, err)
			assert.Equal(t, model.VisitEvent{ID: 2, Person: 2, Place: 5, VisitedAt: 900, Mark: 1}, gotVisit)

			_, err = c.GetVisit(99)
			assert.True(t, store.IsNotFound(err))

			// queries
			visits, err := c.PersonVisits(1, nil)
			require.NoError(t, err)
			assert.Equal(t, []model.VisitInfo{{Mark: 4, VisitedAt: 1000, Place: "Bar"}}, visits)

			avg, err := c.PlaceAverage(5, nil)
			require.NoError(t, err)
			assert.Equal(t, 2.5, avg)

			avg, err = c.PlaceAverage(5, &model.AverageFilter{Gender: ptr(model.GenderMale)})
			require.NoError(t, err)
			assert.Equal(t, 1.0, avg)

			_, err = c.PlaceAverage(5, &model.AverageFilter{})
			assert.True(t, store.IsBadRequest(err), "empty filter set")
			_, err = c.PersonVisits(1, &model.VisitFilter{})
			assert.True(t, store.IsBadRequest(err), "empty filter set")

			// updates, zero values are real values
			require.NoError(t, c.UpdateVisit(1, model.VisitUpdate{Place: ptr(uint32(6)), Mark: ptr(uint8(0))}))
			visits, err = c.PersonVisits(1, &model.VisitFilter{Country: ptr("Peru")})
			require.NoError(t, err)
			assert.Equal(t, []model.VisitInfo{{Mark: 0, VisitedAt: 1000, Place: "Museum"}}, visits)

			require.NoError(t, c.UpdatePlace(6, model.PlaceUpdate{Distance: ptr(uint32(0))}))
			visits, err = c.PersonVisits(1, &model.VisitFilter{MaxDistance: ptr(uint32(1))})
			require.NoError(t, err)
			assert.Len(t, visits, 1)

			require.NoError(t, c.UpdatePerson(2, model.PersonUpdate{BirthDate: ptr(int64(-712108800))}))
			avg, err = c.PlaceAverage(5, &model.AverageFilter{FromAge: ptr(18), FromDate: ptr(int64(0))})
			require.NoError(t, err)
			assert.Equal(t, 1.0, avg)

			assert.True(t, store.IsNotFound(c.UpdatePerson(99, model.PersonUpdate{FirstName: ptr("X")})))
			require.NoError(t, c.UpdatePerson(2, model.PersonUpdate{Gender: ptr(model.GenderFemale)}))
			person, err := c.GetPerson(2)
			require.NoError(t, err)
			assert.Equal(t, model.GenderFemale, person.Gender)

			require.NoError(t, st.Verify())
		})
	}
}

func TestClientConnectError(t *testing.T) {
	_, err := client.NewRPCClient(common.ClientConfig{}, thttp.NewHttpClientTransport(), serializer.NewFastSerializer())
	assert.Error(t, err)
}
