package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE workflow_metadata (
				document_id VARCHAR(255) PRIMARY KEY,
				state VARCHAR(255) NOT NULL,
				assignees JSONB NOT NULL DEFAULT '[]',
				revision BIGINT NOT NULL DEFAULT 1,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_workflow_metadata_state ON workflow_metadata(state);
			CREATE INDEX idx_workflow_metadata_created_at ON workflow_metadata(created_at);
		`,
	}
}
