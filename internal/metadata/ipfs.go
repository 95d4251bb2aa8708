// Package metadata pins proposal metadata (title, description, supporting
// documents and links) to IPFS and verifies it on retrieval. Grounded
// almost verbatim in shape on dao/ipfs.go's IPFSClient/ProposalMetadata,
// repurposed from on-chain-proposal metadata to Station-request metadata:
// the CID itself, not a reduced types.Hash, is now the addressable key,
// since this core has no on-chain hash type to economize into.
package metadata

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"
)

// ProposalMetadata is the off-chain record attached to a governance
// proposal: everything too large or too free-form to carry inline in the
// Station request itself.
type ProposalMetadata struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Details     string              `json:"details,omitempty"`
	Documents   []DocumentReference `json:"documents,omitempty"`
	Links       []LinkReference     `json:"links,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Version     string              `json:"version"`
	CreatedAt   int64               `json:"created_at"`
	UpdatedAt   int64               `json:"updated_at,omitempty"`
	Checksum    string              `json:"checksum"`
}

// DocumentReference points at a supporting document pinned separately.
type DocumentReference struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Hash        string `json:"hash"`
	Size        int64  `json:"size"`
	MimeType    string `json:"mime_type,omitempty"`
}

// LinkReference is an external link attached to a proposal.
type LinkReference struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Client wraps the IPFS shell with proposal-metadata-specific operations.
type Client struct {
	shell *shell.Shell
}

// NewClient builds a Client against an IPFS HTTP API endpoint.
func NewClient(nodeURL string) *Client {
	if nodeURL == "" {
		nodeURL = "localhost:5001"
	}
	return &Client{shell: shell.NewShell(nodeURL)}
}

// UploadProposalMetadata serializes, checksums, and pins proposal
// metadata, returning its content id.
func (c *Client) UploadProposalMetadata(metadata *ProposalMetadata) (string, error) {
	now := time.Now().Unix()
	metadata.CreatedAt = now
	if metadata.UpdatedAt == 0 {
		metadata.UpdatedAt = now
	}
	if metadata.Version == "" {
		metadata.Version = "1.0"
	}
	metadata.Checksum = ""

	jsonData, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	hash := sha256.Sum256(jsonData)
	metadata.Checksum = hex.EncodeToString(hash[:])

	jsonData, err = json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal metadata with checksum: %w", err)
	}

	cid, err := c.shell.Add(bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("upload to ipfs: %w", err)
	}
	if err := c.shell.Pin(cid); err != nil {
		return "", fmt.Errorf("pin %s: %w", cid, err)
	}
	return cid, nil
}

// RetrieveProposalMetadata fetches and checksum-verifies metadata at cid.
func (c *Client) RetrieveProposalMetadata(cid string) (*ProposalMetadata, error) {
	reader, err := c.shell.Cat(cid)
	if err != nil {
		return nil, fmt.Errorf("retrieve from ipfs: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read ipfs data: %w", err)
	}

	var m ProposalMetadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	if err := verifyChecksum(&m); err != nil {
		return nil, fmt.Errorf("metadata verification failed: %w", err)
	}
	return &m, nil
}

// UploadDocument pins a supporting document and returns its reference.
func (c *Client) UploadDocument(name string, data []byte, mimeType string) (*DocumentReference, error) {
	cid, err := c.shell.Add(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("upload document to ipfs: %w", err)
	}
	return &DocumentReference{Name: name, Hash: cid, Size: int64(len(data)), MimeType: mimeType}, nil
}

// RetrieveDocument fetches a document by its reference, verifying size
// when the reference declares one.
func (c *Client) RetrieveDocument(ref *DocumentReference) ([]byte, error) {
	reader, err := c.shell.Cat(ref.Hash)
	if err != nil {
		return nil, fmt.Errorf("retrieve document from ipfs: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read document data: %w", err)
	}
	if ref.Size > 0 && int64(len(data)) != ref.Size {
		return nil, fmt.Errorf("document size mismatch: expected %d, got %d", ref.Size, len(data))
	}
	return data, nil
}

// VerifyContentExists reports whether cid is known to the node.
func (c *Client) VerifyContentExists(cid string) (bool, error) {
	_, err := c.shell.ObjectStat(cid)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return false, nil
		}
		return false, fmt.Errorf("verify content existence: %w", err)
	}
	return true, nil
}

// UnpinContent releases a pin, allowing the node to garbage-collect it.
func (c *Client) UnpinContent(cid string) error {
	return c.shell.Unpin(cid)
}

func verifyChecksum(m *ProposalMetadata) error {
	temp := *m
	temp.Checksum = ""
	data, err := json.MarshalIndent(&temp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal for checksum verification: %w", err)
	}
	hash := sha256.Sum256(data)
	expected := hex.EncodeToString(hash[:])
	if m.Checksum != expected {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expected, m.Checksum)
	}
	return nil
}
