// Package studyshelf provides an embedded Go client for the studyshelf
// personal document manager, backed by Valkey with the JSON module.
//
// The client wires the full engine in-process: account management,
// owner-scoped document CRUD, and the filterable, sortable, paginated
// table view over each owner's collection.
//
//	client, _ := studyshelf.New(ctx,
//	    studyshelf.WithValkey("localhost:6379", ""),
//	    studyshelf.WithJWTSecret("change-me"),
//	)
//	defer client.Close()
//
//	sess, _ := client.SignUp(ctx, "me@example.com", "Sup3r$trong")
//	shelf := client.Shelf(sess.UserID)
//	doc, _ := shelf.Create(ctx, studyshelf.Fields{
//	    Title:   "Biology notes",
//	    Content: "Cells and mitochondria",
//	    Tags:    []string{"school", "biology"},
//	})
//
//	view := shelf.View()
//	_ = view.Load(ctx)
//	view.SetGlobalFilter("biology")
//	page := view.Page()
package studyshelf
