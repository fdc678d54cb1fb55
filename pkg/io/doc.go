// Package io provides JSON import and export for boreholes.
//
// # JSON Format
//
// A document holds one borehole and, optionally, its header metadata:
//
//	{
//	  "id": "BH01",
//	  "ground_level": 62.5,
//	  "intervals": [
//	    {"top": 0.0, "base": 0.5, "code": "101", "description": "TOPSOIL"},
//	    {"top": 0.5, "base": 2.0, "code": "102", "description": "MADE GROUND"}
//	  ],
//	  "header": {"project_name": "SESRO", "client": "Thames Water"}
//	}
//
// Depths are metres below ground level. Intervals may appear in any order;
// validation happens at ingestion, not here.
//
// # Import
//
// Use [ImportJSON] to read a document from a file path, or [ReadJSON] to
// read from any io.Reader. [ReadBorehole] drops the header.
//
// # Export
//
// Use [ExportJSON] to write a document to a file, or [WriteJSON] to write to
// any io.Writer. Output round-trips through [ReadJSON].
//
// For the laid-out pages of a log rather than its data, use the JSON sink in
// [render/sink].
//
// [render/sink]: github.com/matzehuels/boreholelog/pkg/render/sink
package io
