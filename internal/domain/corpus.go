package domain

// Corpus is the immutable set of documents loaded for one search session.
// Documents keep the order in which they were added.
type Corpus struct {
	docs  []Document
	index map[string]int
	bytes int64
}

// NewCorpus builds a corpus from docs. A repeated name replaces the earlier
// content but keeps its original position.
func NewCorpus(docs ...Document) *Corpus {
	c := &Corpus{
		docs:  make([]Document, 0, len(docs)),
		index: make(map[string]int, len(docs)),
	}
	for _, d := range docs {
		if i, ok := c.index[d.Name]; ok {
			c.bytes -= int64(len(c.docs[i].Content))
			c.docs[i] = d
		} else {
			c.index[d.Name] = len(c.docs)
			c.docs = append(c.docs, d)
		}
		c.bytes += int64(len(d.Content))
	}
	return c
}

// Len returns the number of documents. A nil corpus is empty.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.docs)
}

// Documents returns a copy of the documents in corpus order.
func (c *Corpus) Documents() []Document {
	if c == nil {
		return nil
	}
	out := make([]Document, len(c.docs))
	copy(out, c.docs)
	return out
}

// Lookup returns the document with the given name.
func (c *Corpus) Lookup(name string) (Document, bool) {
	if c == nil {
		return Document{}, false
	}
	i, ok := c.index[name]
	if !ok {
		return Document{}, false
	}
	return c.docs[i], true
}

// Bytes returns the total size of all document contents.
func (c *Corpus) Bytes() int64 {
	if c == nil {
		return 0
	}
	return c.bytes
}
