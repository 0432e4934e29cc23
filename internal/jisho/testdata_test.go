package jisho

// henkenDocument is a trimmed-down extract of the 偏見 page.
const henkenDocument = `{
  "id": "henken-1",
  "source_url": "https://jisho.org/word/偏見",
  "word": {"writing": "偏見", "reading": "へんけん", "alignment": [0, 0, 1, 1]},
  "labels": {"is_common": true, "jlpt_level": "N1", "wanikani_level": 27},
  "links": {
    "audio_links": [{"url": "https://example.test/henken.mp3"}],
    "collocation_links": [],
    "other_links": [{"url": "https://en.wikipedia.org/wiki/Prejudice", "text": "Wikipedia"}]
  },
  "fragments": [
    {"kind": "tag", "text": "Noun"},
    {"kind": "entry", "entry": {
      "section_divider": "1.",
      "meaning_text": "prejudice; narrow view; bias",
      "example_sentences": [{"japanese": "偏見を持つ", "english": "to be prejudiced"}]
    }},
    {"kind": "tag", "text": "Wikipedia definition"},
    {"kind": "entry", "entry": {
      "section_divider": "2.",
      "meaning_text": "Prejudice",
      "abstract_text": "Prejudice is prejudgment.",
      "abstract_link": {"url": "https://en.wikipedia.org/wiki/Prejudice", "text": "Read more"},
      "supplemental_info": []
    }},
    {"kind": "tag", "text": "Other forms"},
    {"kind": "other_forms", "forms": [{"writing": "偏見", "reading": "へんけん"}]},
    {"kind": "tag", "text": "Notes"},
    {"kind": "notes", "notes": []}
  ]
}`
