package ps

import (
	"fmt"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/object"
)

// Transaction identifies one archive commit.
type Transaction struct {
	Id     string
	When   time.Time
	Author string // "Name <email>" format
}

func (transaction Transaction) String() string {
	return fmt.Sprintf("Transaction{Id: %s, When: %s, Author: %s}", transaction.Id, transaction.When, transaction.Author)
}

// Short returns the abbreviated commit id.
func (transaction Transaction) Short() string {
	if len(transaction.Id) > 7 {
		return transaction.Id[:7]
	}
	return transaction.Id
}

func (p *Persistence) LatestTransaction() Transaction {
	if !p.IsInitialized() {
		return Transaction{}
	}

	headRef, err := p.repo.Head()
	if err != nil || headRef == nil {
		return Transaction{}
	}

	commit, err := p.repo.CommitObject(headRef.Hash())
	if err != nil {
		return Transaction{}
	}

	return fromCommit(commit)
}

// History lists the commits that touched filePath, newest first.
func (p *Persistence) History(filePath string) ([]Transaction, error) {
	if err := p.ensureInitialized(); err != nil {
		return nil, err
	}
	if _, err := p.repo.Head(); err != nil {
		return nil, nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	path := joinPath(filePath)
	cIter, err := p.repo.Log(&git.LogOptions{FileName: &path})
	if err != nil {
		return nil, err
	}

	var transactions []Transaction
	err = cIter.ForEach(func(c *object.Commit) error {
		transactions = append(transactions, fromCommit(c))
		return nil
	})
	return transactions, err
}

func fromCommit(commit *object.Commit) Transaction {
	author := ""
	if commit.Author.Name != "" || commit.Author.Email != "" {
		author = fmt.Sprintf("%s <%s>", commit.Author.Name, commit.Author.Email)
	}

	return Transaction{
		Id:     commit.Hash.String(),
		When:   commit.Committer.When,
		Author: author,
	}
}
