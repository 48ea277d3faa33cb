package agent

import "context"

// Agent defines the commands exposed by the CLI.
type Agent interface {
	// Update logs in and syncs the collection tree, once or repeatedly.
	Update(ctx context.Context) error

	// SchemaUpdate applies pending migrations.
	SchemaUpdate(ctx context.Context) error

	// SchemaCheck fails when the schema does not match the binary.
	SchemaCheck(ctx context.Context) error

	// SyncReset deletes every stored cursor.
	SyncReset(ctx context.Context) error
}
