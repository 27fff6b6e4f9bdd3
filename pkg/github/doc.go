// Package github is a client binding for the GitHub REST API.
//
// Every route method is a thin call site into a single dispatcher,
// Client.Request, which serializes parameters, tracks the rate-limit
// headers GitHub returns, waits out an exhausted budget before sending and
// decodes successful payloads into plain Go values (map[string]any, []any,
// string). Non-2xx responses surface as *APIError values that match the
// package sentinels through errors.Is.
//
//	client, err := github.New(ctx, github.Config{Token: os.Getenv("GITHUB_TOKEN")})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	user, err := client.GetUser(ctx, "octocat")
//
// A Client is safe for concurrent use. Callers sharing one Client share its
// connection pool and its rate-limit snapshot.
package github
