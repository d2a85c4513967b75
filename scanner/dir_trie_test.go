package scanner

import "testing"

func TestEmptyTrie(t *testing.T) {
	trie := NewDirTrie()
	if trie.RoleOf(".config") != RoleUntracked {
		t.Fatal("expected untracked role in empty trie")
	}
}

func TestLeafDirectory(t *testing.T) {
	trie := NewDirTrie()
	trie.InsertTrackedFile(".config/nvim/init.lua")

	if trie.RoleOf(".config/nvim") != RoleLeaf {
		t.Fatal("expected .config/nvim to be a leaf")
	}
}

func TestTransitDirectory(t *testing.T) {
	trie := NewDirTrie()
	trie.InsertTrackedFile(".config/nvim/init.lua")

	if trie.RoleOf(".config") != RoleTransit {
		t.Fatal("expected .config to be transit")
	}
}

func TestShouldTraverseAndCollect(t *testing.T) {
	trie := NewDirTrie()
	trie.InsertTrackedFile(".config/nvim/init.lua")

	if !trie.ShouldTraverse(".config") {
		t.Fatal(".config should be traversed")
	}
	if trie.ShouldCollect(".config") {
		t.Fatal(".config should not be collected from (transit only)")
	}
	if !trie.ShouldCollect(".config/nvim") {
		t.Fatal(".config/nvim should be collected from (leaf)")
	}
	if trie.ShouldTraverse("unrelated") {
		t.Fatal("unrelated directory should not be traversed")
	}
}

func TestRootOfEmptyTrieIsTransit(t *testing.T) {
	trie := NewDirTrie()
	if trie.RoleOf("") != RoleTransit {
		t.Fatal("expected root to be transit")
	}
}
