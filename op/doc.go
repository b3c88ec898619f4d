// Package op provides the in-memory tables RecordDB executes against.
//
// The op package sits between the command layer (db/) and the value model
// (core/). Both types are generic over core.Key so one implementation serves
// string-keyed and int-keyed databases.
//
// # Table
//
// Table owns a key field name, a schema and the records stored under K:
//
//	table := op.NewTable[core.IntKey]("id", core.Schema{
//	    "id":    core.IntType,
//	    "title": core.StringType,
//	}, nil)
//
//	err := table.AddRecord(core.IntermediateRecord{
//	    "id":    core.NumericLiteral(1),
//	    "title": core.StringLiteral("Dune"),
//	})
//	err = table.DeleteRecord(1)
//
//	for key, record := range table.Scan() {
//	    // records in key order
//	}
//
// # Catalog
//
// Catalog maps table names to tables and refuses tables whose key field type
// does not match K:
//
//	catalog := op.NewCatalog[core.IntKey]()
//	err := catalog.AddTable("library", table)
//	library, err := catalog.GetTable("library")
//
// # Architecture
//
// The layering is:
//
//	Parser (sql/)
//	     ↓
//	Engine (db/)
//	     ↓
//	Tables (op/)     ← This package
//	     ↓
//	Values (core/)
//
// Neither type is safe for concurrent use.
package op
