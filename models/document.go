package models

import (
	"encoding/base64"
	"strings"
)

// DocumentType is the legal filing category of a document
type DocumentType string

const (
	DocInitialPetition             DocumentType = "initial_petition"
	DocDefense                     DocumentType = "defense"
	DocJudgment                    DocumentType = "judgment"
	DocClarificationMotion         DocumentType = "clarification_motion"
	DocOrdinaryAppeal              DocumentType = "ordinary_appeal"
	DocPanelDecision               DocumentType = "panel_decision"
	DocSpecialAppeal               DocumentType = "special_appeal"
	DocSpecialAppealInterlocutory  DocumentType = "special_appeal_interlocutory"
	DocInterlocutoryAppeal         DocumentType = "interlocutory_appeal"
	DocClarificationMotionSuperior DocumentType = "clarification_motion_superior"
	DocExtraordinaryAppeal         DocumentType = "extraordinary_appeal"
	DocAppeal                      DocumentType = "appeal"
	DocOther                       DocumentType = "other"
)

var documentTypes = map[DocumentType]bool{
	DocInitialPetition:             true,
	DocDefense:                     true,
	DocJudgment:                    true,
	DocClarificationMotion:         true,
	DocOrdinaryAppeal:              true,
	DocPanelDecision:               true,
	DocSpecialAppeal:               true,
	DocSpecialAppealInterlocutory:  true,
	DocInterlocutoryAppeal:         true,
	DocClarificationMotionSuperior: true,
	DocExtraordinaryAppeal:         true,
	DocAppeal:                      true,
	DocOther:                       true,
}

// Valid reports whether t belongs to the closed set of document types
func (t DocumentType) Valid() bool {
	return documentTypes[t]
}

// Encoding describes how a document's content must be interpreted
type Encoding string

const (
	EncodingPlain  Encoding = "plain"
	EncodingBase64 Encoding = "base64"
)

// Document represents a text artifact attached to a case
type Document struct {
	Type     DocumentType `json:"type"`
	Filename *string      `json:"filename,omitempty"`
	Content  string       `json:"content"`
	Encoding Encoding     `json:"encoding"`

	// ArchivePath is where the decoded content was archived, if an archive is configured
	ArchivePath string `json:"-"`
}

// Decode returns the document bytes according to its declared encoding
func (d *Document) Decode() ([]byte, error) {
	switch d.Encoding {
	case EncodingPlain, "":
		return []byte(d.Content), nil
	case EncodingBase64:
		b, err := base64.StdEncoding.DecodeString(d.Content)
		if err != nil {
			return nil, invalidf("content is not valid base64")
		}
		return b, nil
	default:
		return nil, invalidf("unknown encoding %q", d.Encoding)
	}
}

// DocumentInput represents one document in an attach request
type DocumentInput struct {
	Type     string  `json:"type" binding:"required"`
	Filename *string `json:"filename"`
	Content  string  `json:"content" binding:"required"`
	Encoding string  `json:"encoding"`
}

// AttachDocumentsInput represents the request body for attaching documents
type AttachDocumentsInput struct {
	Documents []DocumentInput `json:"documents" binding:"required,dive"`
}

// ToDocument validates the input against the closed type and encoding sets
func (in DocumentInput) ToDocument() (Document, error) {
	doc := Document{
		Type:     DocumentType(in.Type),
		Filename: in.Filename,
		Content:  in.Content,
		Encoding: Encoding(in.Encoding),
	}
	if !doc.Type.Valid() {
		return Document{}, invalidf("unknown document type %q", in.Type)
	}
	if doc.Encoding == "" {
		doc.Encoding = EncodingPlain
	}
	if doc.Encoding != EncodingPlain && doc.Encoding != EncodingBase64 {
		return Document{}, invalidf("unknown encoding %q", in.Encoding)
	}
	if in.Content == "" {
		return Document{}, invalidf("content is required")
	}
	if _, err := doc.Decode(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ToDocuments converts a whole batch, failing on the first invalid entry
func (in AttachDocumentsInput) ToDocuments() ([]Document, error) {
	docs := make([]Document, 0, len(in.Documents))
	for i, d := range in.Documents {
		doc, err := d.ToDocument()
		if err != nil {
			return nil, invalidf("documents[%d]: %v", i, unwrapMessage(err))
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func unwrapMessage(err error) string {
	return strings.TrimPrefix(err.Error(), ErrInvalid.Error()+": ")
}
