package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	api "gitlab.com/dirk.krummacker/giftlist-service/pkg/model"
)

const serverPort = 8080

var assignees = []string{"Andrea", "Marco", "Massimo", "Matteo"}

// Usage example on the command line:
// > go run main.go
//
// The client works on the partner category and leaves it empty when it is done.
func main() {
	fmt.Println()
	fmt.Println("  Elements    CREATE    RESYNC      BULK     CLEAR ")
	fmt.Println("---------------------------------------------------")
	sizes := []int{100, 500, 1000, 5000, 10000}
	for _, size := range sizes {
		fmt.Printf("%10d", size)

		// create every contact with one snapshot
		created, d := sendSnapshot(createRandomContacts(size))
		fmt.Printf("%10d", d/1000)

		// send the same snapshot back, nothing should change
		_, d = sendSnapshot(created)
		fmt.Printf("%10d", d/1000)

		// flag every contact for the gift
		ids := make([]int64, 0, len(created))
		for _, c := range created {
			ids = append(ids, *c.Id)
		}
		rand.Shuffle(len(ids), func(i, j int) {
			ids[i], ids[j] = ids[j], ids[i]
		})
		body, _ := json.Marshal(api.BulkUpdate{Ids: ids, PropertyName: "giftFlag", PropertyValue: "sì"})
		_, d = sendRequest(http.MethodPost, url("/api/contacts/partner/bulk"), bytes.NewReader(body))
		fmt.Printf("%10d", d/1000)

		// an empty snapshot moves everything to the trash
		_, d = sendSnapshot([]api.Contact{})
		sendRequest(http.MethodDelete, url("/api/trash"), nil)
		fmt.Printf("%10d", d/1000)
		fmt.Println()
	}
}

func createRandomContacts(n int) []api.Contact {
	contacts := make([]api.Contact, 0, n)
	for i := 0; i < n; i++ {
		contacts = append(contacts, api.Contact{
			Name:             "Contact " + strconv.Itoa(i),
			Company:          "Company " + strconv.Itoa(rand.Intn(n/10+1)),
			Street:           "Via Roma",
			HouseNumber:      strconv.Itoa(rand.Intn(200) + 1),
			PostalCode:       fmt.Sprintf("%05d", rand.Intn(100000)),
			Locality:         "Udine",
			Province:         "UD",
			CourierFlag:      rand.Intn(2) == 0,
			DeliveryAssignee: assignees[rand.Intn(len(assignees))],
		})
	}
	return contacts
}

func url(path string) string {
	return fmt.Sprintf("http://localhost:%d%s", serverPort, path)
}

func sendSnapshot(contacts []api.Contact) ([]api.Contact, int64) {
	body, err := json.Marshal(contacts)
	if err != nil {
		fmt.Println("could not marshal JSON", err)
		panic(err)
	}
	resBody, duration := sendRequest(http.MethodPost, url("/api/contacts/partner"), bytes.NewReader(body))
	var response struct {
		Success bool          `json:"success"`
		Error   string        `json:"error"`
		Data    []api.Contact `json:"data"`
	}
	if err := json.Unmarshal(resBody, &response); err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	if !response.Success {
		panic(response.Error)
	}
	return response.Data, duration
}

func sendRequest(method string, requestURL string, bodyReader io.Reader) ([]byte, int64) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	return resBody, after - before
}
