// Package fl33tclient provides the main entry point for creating fl33t API clients.
//
// Example usage:
//
//	client, err := fl33tclient.New(&fl33t.Config{
//		TeamID:       "my-team",
//		SessionToken: os.Getenv("FL33T_TOKEN"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	trains, err := client.Trains().List(ctx, nil).All()
package fl33tclient
