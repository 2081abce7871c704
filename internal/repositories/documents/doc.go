// Package documents persists document metadata in the four *_documents tables.
//
// # Overview
//
// Every entity kind has its own table (tenant_documents, landlord_documents,
// property_documents, tenancy_documents) with identical columns:
//
//	doc_id, <owner>_id, doc_type, doc_name, file_path, uploaded_date, expiry_date
//
// file_path holds the stored filename only, relative to the entity folder.
// Repository hides the table switch; SQLRepository implements it over a
// dbx.DBTX, so it works with *sql.DB, *sql.Tx and a dialect-bound handle.
//
// Typical Usage
//
//	repo := documents.NewSQLRepository(db)
//	id, _ := repo.Insert(ctx, doc)
//	docs, _ := repo.ListByEntity(ctx, models.EntityTenant, 3)
//	n, _ := repo.DeleteByFilename(ctx, models.EntityTenant, 3, "1700000000_id.pdf.encrypted")
package documents
