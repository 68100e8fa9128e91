// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package policy

import "strings"

// Curated fallback texts use World English Bible wording (public domain).

// DefaultGuards returns the built-in topic guard table.
// The returned slice is freshly allocated; callers may not mutate shared state.
func DefaultGuards() []TopicGuard {
	return []TopicGuard{
		{
			Name:     "murder",
			Keywords: []string{"murder", "kill", "killing", "homicide"},
			Priority: []GuardVerse{
				{Reference: "EXO 20:13", Text: "You shall not murder."},
				{Reference: "MAT 5:21", Text: "You have heard that it was said to the ancient ones, 'You shall not murder;' and 'Whoever murders will be in danger of the judgment.'"},
			},
			// Verses about accidental killing are tangential under this
			// guard and would mislead the generator.
			ExcludePatterns: []string{"manslaughter", "unintentionally", "city of refuge"},
			ConditionalPriority: func(query string) []GuardVerse {
				if strings.Contains(query, "anger") || strings.Contains(query, "angry") {
					return []GuardVerse{
						{Reference: "MAT 5:22", Text: "But I tell you that everyone who is angry with his brother without a cause will be in danger of the judgment."},
					}
				}
				return nil
			},
		},
		{
			Name:     "lying",
			Keywords: []string{"lying", "lie", "lies", "dishonesty", "false testimony"},
			Priority: []GuardVerse{
				{Reference: "EXO 20:16", Text: "You shall not give false testimony against your neighbor."},
				{Reference: "PRO 6:16-19", Text: "There are six things which Yahweh hates; yes, seven which are an abomination to him: haughty eyes, a lying tongue, hands that shed innocent blood, a heart that devises wicked schemes, feet that are swift in running to mischief, a false witness who utters lies, and he who sows discord among brothers."},
			},
			ExcludePatterns: []string{"rahab"},
			ConditionalPriority: func(query string) []GuardVerse {
				if strings.Contains(query, "oath") || strings.Contains(query, "swear") {
					return []GuardVerse{
						{Reference: "MAT 5:37", Text: "But let your 'Yes' be 'Yes' and your 'No' be 'No.' Whatever is more than these is of the evil one."},
					}
				}
				return nil
			},
		},
		{
			Name:     "stealing",
			Keywords: []string{"steal", "stealing", "theft", "stole"},
			Priority: []GuardVerse{
				{Reference: "EXO 20:15", Text: "You shall not steal."},
				{Reference: "EPH 4:28", Text: "Let him who stole steal no more; but rather let him labor, producing with his hands something that is good, that he may have something to give to him who has need."},
			},
		},
		{
			Name:     "adultery",
			Keywords: []string{"adultery", "unfaithful", "affair"},
			Priority: []GuardVerse{
				{Reference: "EXO 20:14", Text: "You shall not commit adultery."},
				{Reference: "MAT 5:27", Text: "You have heard that it was said, 'You shall not commit adultery;'"},
			},
		},
	}
}

// DefaultCuratedLists returns the built-in curated topical list table.
func DefaultCuratedLists() []CuratedList {
	return []CuratedList{
		{
			Name:      "ten commandments",
			Keywords:  []string{"ten commandments", "decalogue"},
			Exclusive: true,
			Verses: []GuardVerse{
				{Reference: "EXO 20:3", Text: "You shall have no other gods before me."},
				{Reference: "EXO 20:4", Text: "You shall not make for yourselves an idol, nor any image of anything that is in the heavens above, or that is in the earth beneath, or that is in the water under the earth."},
				{Reference: "EXO 20:7", Text: "You shall not misuse the name of Yahweh your God, for Yahweh will not hold him guiltless who misuses his name."},
				{Reference: "EXO 20:8", Text: "Remember the Sabbath day, to keep it holy."},
				{Reference: "EXO 20:12", Text: "Honor your father and your mother, that your days may be long in the land which Yahweh your God gives you."},
				{Reference: "EXO 20:13", Text: "You shall not murder."},
				{Reference: "EXO 20:14", Text: "You shall not commit adultery."},
				{Reference: "EXO 20:15", Text: "You shall not steal."},
				{Reference: "EXO 20:16", Text: "You shall not give false testimony against your neighbor."},
				{Reference: "EXO 20:17", Text: "You shall not covet your neighbor's house. You shall not covet your neighbor's wife, nor his male servant, nor his female servant, nor his ox, nor his donkey, nor anything that is your neighbor's."},
			},
		},
		{
			Name:      "slavery",
			Keywords:  []string{"slavery", "slaves", "enslaved"},
			Exclusive: true,
			Verses: []GuardVerse{
				{Reference: "GAL 3:28", Text: "There is neither Jew nor Greek, there is neither slave nor free man, there is neither male nor female; for you are all one in Christ Jesus."},
				{Reference: "EXO 21:16", Text: "Anyone who kidnaps someone and sells him, or if he is found in his hand, he shall surely be put to death."},
				{Reference: "PHM 1:16", Text: "no longer as a slave, but more than a slave, a beloved brother, especially to me, but how much rather to you, both in the flesh and in the Lord."},
			},
		},
		{
			Name:     "love",
			Keywords: []string{"love", "loving"},
			Verses: []GuardVerse{
				{Reference: "JHN 3:16", Text: "For God so loved the world, that he gave his only born Son, that whoever believes in him should not perish, but have eternal life."},
				{Reference: "1CO 13:4", Text: "Love is patient and is kind. Love doesn't envy. Love doesn't brag, is not proud."},
				{Reference: "1JN 4:8", Text: "He who doesn't love doesn't know God, for God is love."},
			},
		},
	}
}
